package services

import (
	"crypto/subtle"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fresas_backend/pkg/utils"
)

// --- Custom Service Errors ---
var (
	ErrInvalidPIN      = errors.New("invalid PIN")
	ErrTokenGeneration = errors.New("failed to generate token")
)

// --- DTOs ---

// LoginRequest DTO
type LoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// --- AuthService Interface ---
type AuthService interface {
	Login(req LoginRequest) (*AuthResponse, error)
}

// --- authService Implementation ---
type authService struct {
	adminPIN     string
	adminPINHash string
	jwtSecret    []byte
	jwtExpire    time.Duration
}

// NewAuthService creates a new instance of AuthService. When pinHash is set
// it is a bcrypt hash and takes precedence over the plain pin.
func NewAuthService(pin, pinHash, jwtSecret string, jwtExpire time.Duration) AuthService {
	return &authService{
		adminPIN:     pin,
		adminPINHash: pinHash,
		jwtSecret:    []byte(jwtSecret),
		jwtExpire:    jwtExpire,
	}
}

// Login verifies the admin PIN and issues a signed access token.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	if s.adminPINHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.adminPINHash), []byte(req.PIN)); err != nil {
			return nil, ErrInvalidPIN
		}
	} else if subtle.ConstantTimeCompare([]byte(s.adminPIN), []byte(req.PIN)) != 1 {
		return nil, ErrInvalidPIN
	}

	expiresAt := time.Now().Add(s.jwtExpire)
	token, err := utils.GenerateAccessToken(s.jwtSecret, "admin", expiresAt)
	if err != nil {
		return nil, ErrTokenGeneration
	}
	return &AuthResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}
