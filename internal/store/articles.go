package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// CreateArticle inserts a new article owned by userID
func (p *Postgres) CreateArticle(ctx context.Context, title, abstract, userID string) (Article, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO articles (title, abstract, body, version, created_by)
		VALUES ($1, $2, ''::bytea, 0, $3)
		RETURNING id, title, abstract, body, version, created_by, created_at, updated_at
	`, title, abstract, userID)

	var a Article
	if err := row.Scan(&a.ID, &a.Title, &a.Abstract, &a.Body, &a.Version, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Article{}, err
	}
	return a, nil
}

// ListArticles returns the caller's articles sorted by last update
func (p *Postgres) ListArticles(ctx context.Context, userID string, limit, offset int) ([]Article, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, title, abstract, body, version, created_by, created_at, updated_at
		FROM articles
		WHERE created_by = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Abstract, &a.Body, &a.Version, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetArticle fetches an article by ID
func (p *Postgres) GetArticle(ctx context.Context, id string) (Article, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, title, abstract, body, version, created_by, created_at, updated_at
		FROM articles
		WHERE id = $1
	`, id)

	var a Article
	if err := row.Scan(&a.ID, &a.Title, &a.Abstract, &a.Body, &a.Version, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Article{}, err
	}
	return a, nil
}

// SaveArticle updates the article body, bumps version and timestamp
func (p *Postgres) SaveArticle(ctx context.Context, id string, blob []byte) error {
	ct, err := p.pool.Exec(ctx, `
		UPDATE articles
		SET body = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1
	`, id, blob)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.New("article not found")
	}
	p.log.Info("article.saved", "id", id, "bytes", len(blob))
	return nil
}

// CreateShare issues an opaque hex token granting access to an article.
// ttl <= 0 means the token never expires.
func (p *Postgres) CreateShare(ctx context.Context, articleID, userID string, ttl time.Duration) (Share, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return Share{}, err
	}
	token := hex.EncodeToString(raw)

	var expires *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expires = &t
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO article_shares (token, article_id, created_by, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING token, article_id, created_by, expires_at, created_at
	`, token, articleID, userID, expires)

	var s Share
	if err := row.Scan(&s.Token, &s.ArticleID, &s.CreatedBy, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return Share{}, err
	}
	return s, nil
}

// AddCollaborator grants an email address edit access to an article
func (p *Postgres) AddCollaborator(ctx context.Context, articleID, email string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO article_collaborators (article_id, email)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, articleID, normEmail(email))
	return err
}
