package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskTokens(t *testing.T) {
	now := time.Date(2011, 5, 10, 12, 0, 0, 0, time.UTC)
	tokens, err := NewTaskTokens("s3cret", time.Minute)
	require.NoError(t, err)
	tokens.now = func() time.Time { return now }

	t.Run("round trip", func(t *testing.T) {
		tok, err := tokens.Issue("worker", "task-1")
		require.NoError(t, err)

		claims, err := tokens.Verify("Bearer "+tok, "task-1")
		require.NoError(t, err)
		assert.True(t, claims.Admin)
		assert.Equal(t, "worker", claims.Subject)
	})

	t.Run("unscoped token works for any task", func(t *testing.T) {
		tok, err := tokens.Issue("worker", "")
		require.NoError(t, err)
		_, err = tokens.Verify(tok, "anything")
		assert.NoError(t, err)
	})

	t.Run("wrong task", func(t *testing.T) {
		tok, _ := tokens.Issue("worker", "task-1")
		_, err := tokens.Verify(tok, "task-2")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := tokens.Verify("Bearer ", "task-1")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("expired", func(t *testing.T) {
		tok, _ := tokens.Issue("worker", "")
		later, _ := NewTaskTokens("s3cret", time.Minute)
		later.now = func() time.Time { return now.Add(time.Hour) }
		_, err := later.Verify(tok, "x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		tok, _ := tokens.Issue("worker", "")
		other, _ := NewTaskTokens("other", time.Minute)
		other.now = tokens.now
		_, err := other.Verify(tok, "x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non admin", func(t *testing.T) {
		claims := TaskClaims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		_, err = tokens.Verify(tok, "x")
		assert.ErrorIs(t, err, ErrNotAdmin)
	})

	t.Run("no secret", func(t *testing.T) {
		_, err := NewTaskTokens("", time.Minute)
		assert.ErrorIs(t, err, ErrNoSecret)
	})
}

func TestParseUser(t *testing.T) {
	isAdmin := func(e string) bool { return e == "root@example.com" }

	u, ok := ParseUser(" Ann@Example.com ", isAdmin)
	assert.True(t, ok)
	assert.Equal(t, User{Email: "ann@example.com"}, u)
	assert.Equal(t, "ann", u.Nickname())

	u, ok = ParseUser("root@example.com", isAdmin)
	assert.True(t, ok)
	assert.True(t, u.Admin)

	_, ok = ParseUser("", isAdmin)
	assert.False(t, ok)
	_, ok = ParseUser("not an address", isAdmin)
	assert.False(t, ok)
}
