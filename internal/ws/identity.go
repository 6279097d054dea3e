package ws

import (
	"net/http"
	"strings"

	"github.com/Lampx83/AI-Portal-sub002/pkg/auth"
)

// JWTIdentity resolves the acting user from the upgrade request's token.
// Browsers cannot set headers on a websocket request, so the token is read
// from the `token` query parameter first, then the Authorization header.
type JWTIdentity struct {
	JWT *auth.JWT
}

func (j JWTIdentity) ResolveIdentity(r *http.Request) (Identity, error) {
	tok := r.URL.Query().Get("token")
	if tok == "" {
		if b := r.Header.Get("Authorization"); strings.HasPrefix(b, "Bearer ") {
			tok = strings.TrimPrefix(b, "Bearer ")
		}
	}
	c, err := j.JWT.VerifyClaims(tok)
	if err != nil {
		return Identity{}, err
	}
	return Identity{ID: c.UserID, Email: c.Email, Name: c.Name}, nil
}
