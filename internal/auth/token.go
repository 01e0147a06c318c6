package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing authentication token")
	ErrInvalidToken = errors.New("invalid token")
	ErrNotAdmin     = errors.New("token does not carry the admin claim")
	ErrNoSecret     = errors.New("task token secret is not configured")
)

const issuer = "appsamples"

// TaskClaims are carried by tokens that workers present when posting task results back.
type TaskClaims struct {
	Admin bool   `json:"admin"`
	Task  string `json:"task,omitempty"`
	jwt.RegisteredClaims
}

// TaskTokens issues and verifies HS256 task tokens.
type TaskTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTaskTokens builds a signer/verifier. An empty secret is rejected.
func NewTaskTokens(secret string, ttl time.Duration) (*TaskTokens, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TaskTokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs an admin token scoped to one task; an empty task name scopes it to any task.
func (t *TaskTokens) Issue(subject, task string) (string, error) {
	now := t.now()
	claims := TaskClaims{
		Admin: true,
		Task:  task,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses an Authorization header value (with or without the Bearer prefix) and checks that the
// token is an admin token valid for task.
func (t *TaskTokens) Verify(header, task string) (*TaskClaims, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if raw == "" {
		return nil, ErrMissingToken
	}

	claims := &TaskClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !claims.Admin {
		return nil, ErrNotAdmin
	}
	if claims.Task != "" && claims.Task != task {
		return nil, fmt.Errorf("%w: token issued for another task", ErrInvalidToken)
	}
	return claims, nil
}
