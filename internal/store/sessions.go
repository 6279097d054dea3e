package store

import (
	"context"
	"errors"
)

// CreateSession inserts a new chat session for the user
func (p *Postgres) CreateSession(ctx context.Context, userID, title string) (ChatSession, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO chat_sessions (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, title, created_at
	`, userID, title)

	var s ChatSession
	if err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt); err != nil {
		return ChatSession{}, err
	}
	return s, nil
}

// ListSessions returns the user's chat sessions, newest first
func (p *Postgres) ListSessions(ctx context.Context, userID string, limit, offset int) ([]ChatSession, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, title, created_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChatSession
	for rows.Next() {
		var s ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSession fetches one of the user's sessions by ID
func (p *Postgres) GetSession(ctx context.Context, id, userID string) (ChatSession, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, user_id, title, created_at
		FROM chat_sessions
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	var s ChatSession
	if err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt); err != nil {
		return ChatSession{}, err
	}
	return s, nil
}

// DeleteSession removes one of the user's sessions
func (p *Postgres) DeleteSession(ctx context.Context, id, userID string) error {
	ct, err := p.pool.Exec(ctx, `
		DELETE FROM chat_sessions WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.New("session not found")
	}
	return nil
}
