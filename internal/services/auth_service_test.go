package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fresas_backend/pkg/utils"
)

func TestLoginWithPlainPIN(t *testing.T) {
	svc := NewAuthService("1234", "", "test-secret", time.Hour)

	resp, err := svc.Login(LoginRequest{PIN: "1234"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.True(t, resp.ExpiresAt.After(time.Now()))

	claims, err := utils.ValidateToken([]byte("test-secret"), resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)

	_, err = svc.Login(LoginRequest{PIN: "0000"})
	require.True(t, errors.Is(err, ErrInvalidPIN))
}

func TestLoginWithHashedPIN(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("9876"), bcrypt.DefaultCost)
	require.NoError(t, err)

	// The hash takes precedence over the plain PIN.
	svc := NewAuthService("1234", string(hash), "test-secret", time.Hour)

	_, err = svc.Login(LoginRequest{PIN: "9876"})
	require.NoError(t, err)

	_, err = svc.Login(LoginRequest{PIN: "1234"})
	require.True(t, errors.Is(err, ErrInvalidPIN))
}
