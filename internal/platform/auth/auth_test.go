package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := IssueToken("s3cret", "u-1", RoleAdmin, time.Minute)
	require.NoError(t, err)

	id, err := ParseToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u-1", Role: RoleAdmin}, id)
	assert.True(t, id.IsAdmin())
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := IssueToken("s3cret", "u-1", "", -time.Minute)
	require.NoError(t, err)
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	good, err := IssueToken("s3cret", "u-1", "", time.Minute)
	require.NoError(t, err)

	for name, tc := range map[string]struct{ secret, token string }{
		"expired":      {"s3cret", expired},
		"no user id":   {"s3cret", noUser},
		"wrong secret": {"other", good},
		"garbage":      {"s3cret", "not.a.token"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tc.secret, tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = BearerToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
	_, err = BearerToken("Token abc")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestContextIdentity(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u-2"})
	assert.Equal(t, "u-2", UserID(ctx))
}
