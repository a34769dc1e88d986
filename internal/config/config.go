package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"fresas_backend/pkg/utils"
)

// Config holds all application settings loaded from the environment.
type Config struct {
	// ExcelPath is the path to the workbook that is the source of truth.
	ExcelPath string
	// PendingLogPath is the CSV fallback log for consumos that could not
	// be written to the workbook.
	PendingLogPath string
	// SheetMapPath optionally points to a JSON file with marca -> sheet
	// pattern aliases. When empty or missing, built-in defaults are used.
	SheetMapPath string

	// CatalogTTL is how long a loaded catalog is served without re-reading
	// the workbook.
	CatalogTTL time.Duration

	Host string
	Port string

	CORSAllowedOrigins []string

	// AdminPIN is the plain admin PIN (development fallback).
	// AdminPINHash, when set, takes precedence and is a bcrypt hash.
	AdminPIN     string
	AdminPINHash string

	JWTSecret string
	JWTExpire time.Duration
}

// Load reads configuration from the environment, after loading an optional
// .env file. Missing values fall back to defaults.
func Load() *Config {
	// .env is optional; ignore the error when the file does not exist.
	_ = godotenv.Load()

	ttlSeconds, err := strconv.Atoi(utils.Getenv("CATALOG_TTL_SECONDS", "60"))
	if err != nil || ttlSeconds < 0 {
		ttlSeconds = 60
	}
	expireHours, err := strconv.Atoi(utils.Getenv("JWT_EXPIRE_HOURS", "24"))
	if err != nil || expireHours <= 0 {
		expireHours = 24
	}

	return &Config{
		ExcelPath:          utils.Getenv("EXCEL_PATH", "data/Control FRESAS.xlsx"),
		PendingLogPath:     utils.Getenv("PENDING_LOG_PATH", "data/pending_consumos.csv"),
		SheetMapPath:       utils.Getenv("SHEET_MAP_PATH", ""),
		CatalogTTL:         time.Duration(ttlSeconds) * time.Second,
		Host:               utils.Getenv("API_HOST", "0.0.0.0"),
		Port:               utils.Getenv("PORT", "8080"),
		CORSAllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		AdminPIN:           utils.Getenv("ADMIN_PIN", "1234"),
		AdminPINHash:       utils.Getenv("ADMIN_PIN_HASH", ""),
		JWTSecret:          utils.Getenv("JWT_SECRET", "fresas-standalone-secret-change-me"),
		JWTExpire:          time.Duration(expireHours) * time.Hour,
	}
}
