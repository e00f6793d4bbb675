// Package auth issues and verifies the HS256 JWTs used as session tokens.
// Access tokens additionally carry the account email and role so route
// guards can authorize without a database round trip.
package auth

import (
	"errors"
	"time"

	"github.com/avolkovs/talentdesk/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims extends the registered claims with the account identity. Email and
// Role are only present on access tokens.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"aid"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// GenerateAccessToken mints a short-lived access token carrying the account
// id, email, and role.
func GenerateAccessToken(accountID, email, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		AccountID: accountID,
		Email:     email,
		Role:      role,
	})
	return token.SignedString(secretKey)
}

// GenerateRefreshToken mints a long-lived refresh token carrying only the
// account id.
func GenerateRefreshToken(accountID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		AccountID: accountID,
	})
	return token.SignedString(secretKey)
}

// ParseToken verifies the signature and expiry and returns the claims.
// Expired tokens map to common.ErrTokenExpired, everything else invalid to
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.AccountID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
