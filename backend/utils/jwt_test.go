package utils

import (
	"coursetrack/backend/config"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	token, err := GenerateJWTToken(42, cfg)
	require.NoError(t, err)

	userID, err := ParseUserID(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseUserIDRejectsForeignSecret(t *testing.T) {
	token, err := GenerateJWTToken(42, &config.Config{JWTSecret: "other"})
	require.NoError(t, err)

	_, err = ParseUserID(token, &config.Config{JWTSecret: "testsecret"})
	assert.Error(t, err)
}

func TestParseUserIDRejectsNonPositiveID(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 0}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = ParseUserID(token, cfg)
	assert.Error(t, err)
}
