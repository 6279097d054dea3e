package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const userKey ctxKey = 1

// WithUser adds a user ID to the context
func WithUser(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userKey, uid)
}

// UserID extracts the user ID from the context, defaults to "anon"
func UserID(ctx context.Context) string {
	v := ctx.Value(userKey)
	if v == nil {
		return "anon"
	}
	return v.(string)
}

// Claims is what the portal puts in a token: the user id plus the profile
// fields presence payloads are built from.
type Claims struct {
	UserID string
	Email  string
	Name   string
}

// JWT wraps a signing secret for issuing/verifying tokens
type JWT struct{ secret []byte }

// New creates a new JWT signer/verifier.
func New(secret string) *JWT { return &JWT{secret: []byte(secret)} }

// Verify checks a token and returns the sub (user ID) claim
func (j *JWT) Verify(tok string) (string, error) {
	c, err := j.VerifyClaims(tok)
	if err != nil {
		return "", err
	}
	return c.UserID, nil
}

// VerifyClaims checks a token and returns the full portal claims
func (j *JWT) VerifyClaims(tok string) (Claims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	uid, _ := claims["sub"].(string)
	if uid == "" {
		return Claims{}, errors.New("no sub")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return Claims{UserID: uid, Email: email, Name: name}, nil
}

// Sign creates a token for the user with the given TTL
func (j *JWT) Sign(c Claims, ttl time.Duration) (string, error) {
	if c.UserID == "" {
		return "", errors.New("empty uid")
	}
	claims := jwt.MapClaims{
		"sub": c.UserID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	if c.Email != "" {
		claims["email"] = c.Email
	}
	if c.Name != "" {
		claims["name"] = c.Name
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(j.secret)
}
