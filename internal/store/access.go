package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Lampx83/AI-Portal-sub002/internal/cache"
)

// ErrDenied covers every access failure: bad token, expired token, no such
// article, no permission. Callers must not be able to tell these apart.
var ErrDenied = errors.New("access denied")

// Access resolves room selectors for the websocket gate. A share token wins
// over an article id; article-id access requires ownership or a collaborator
// grant on the caller's email.
type Access struct {
	db    *Postgres
	cache *cache.TokenCache // optional, nil disables caching
}

// NewAccess builds the resolver; cache may be nil
func NewAccess(db *Postgres, c *cache.TokenCache) *Access {
	return &Access{db: db, cache: c}
}

func (a *Access) ResolveAccess(ctx context.Context, userID, email, articleID, shareToken string) (string, error) {
	if shareToken != "" {
		return a.resolveToken(ctx, shareToken)
	}
	if articleID != "" {
		return a.resolveArticle(ctx, userID, email, articleID)
	}
	return "", ErrDenied
}

func (a *Access) resolveToken(ctx context.Context, token string) (string, error) {
	if a.cache != nil {
		if id, ok := a.cache.Get(ctx, token); ok {
			return id, nil
		}
	}

	row := a.db.pool.QueryRow(ctx, `
		SELECT article_id
		FROM article_shares
		WHERE token = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`, token)

	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrDenied
		}
		return "", err
	}
	if a.cache != nil {
		a.cache.Set(ctx, token, id)
	}
	return id, nil
}

func (a *Access) resolveArticle(ctx context.Context, userID, email, articleID string) (string, error) {
	row := a.db.pool.QueryRow(ctx, `
		SELECT id FROM articles
		WHERE id = $1
		  AND (created_by = $2 OR EXISTS (
			SELECT 1 FROM article_collaborators
			WHERE article_id = $1 AND email = $3
		  ))
	`, articleID, userID, normEmail(email))

	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrDenied
		}
		return "", err
	}
	return id, nil
}
