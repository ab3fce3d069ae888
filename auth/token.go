package auth

import (
	"chat-sync/domain/chat"
	"chat-sync/errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims defines the structure of the data stored inside the access token.
type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// UserIDFromToken reads the acting user from the access token.
// The signature is not checked here: the backend verifies the token on every
// call, the client only needs to know who it is acting as.
func UserIDFromToken(tokenString string) (chat.UserID, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return "", errors.ErrMissingUserID
	}
	claims := &CustomClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrMissingUserID, err)
	}
	if claims.UserID == "" {
		return "", errors.ErrMissingUserID
	}
	return chat.UserID(claims.UserID), nil
}

// ResolveUserID prefers an explicitly configured id over the token claim.
func ResolveUserID(configured, token string) (chat.UserID, error) {
	if configured != "" {
		return chat.UserID(configured), nil
	}
	return UserIDFromToken(token)
}
