package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/example/konveksi/internal/models"
)

type jwtCustomClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT carrying the user's id, name and role.
func GenerateToken(secret string, user *models.User, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		UserID: user.ID.String(),
		Name:   user.Name,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// TokenIdentity is what a validated token says about its holder.
type TokenIdentity struct {
	UserID uuid.UUID
	Name   string
	Role   models.Role
}

// ParseToken validates the token and returns the embedded identity.
func ParseToken(secret, tokenString string) (TokenIdentity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return TokenIdentity{}, err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return TokenIdentity{}, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return TokenIdentity{}, err
	}

	return TokenIdentity{
		UserID: userID,
		Name:   claims.Name,
		Role:   models.Role(claims.Role),
	}, nil
}
