package auth

import (
	"chat-sync/errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, userID string) string {
	claims := &CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "chat-backend",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server_side_secret"))
	require.NoError(t, err)
	return token
}

func Test_UserID_From_Token(t *testing.T) {
	req := require.New(t)

	userID, err := UserIDFromToken(signedToken(t, "64f1c2"))
	req.NoError(err)
	req.EqualValues("64f1c2", userID)

	userID, err = UserIDFromToken("Bearer " + signedToken(t, "64f1c2"))
	req.NoError(err)
	req.EqualValues("64f1c2", userID)
}

func Test_UserID_From_Token_Errors(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name  string
		token string
	}{
		{"Empty token", ""},
		{"Not a jwt", "definitely-not-a-token"},
		{"No user claim", signedToken(t, "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UserIDFromToken(tt.token)
			req.ErrorIs(err, errors.ErrMissingUserID)
		})
	}
}

func Test_Resolve_UserID_Prefers_Configured(t *testing.T) {
	req := require.New(t)

	userID, err := ResolveUserID("me", signedToken(t, "someone-else"))
	req.NoError(err)
	req.EqualValues("me", userID)

	userID, err = ResolveUserID("", signedToken(t, "from-token"))
	req.NoError(err)
	req.EqualValues("from-token", userID)
}
