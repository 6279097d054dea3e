package store

import (
	"context"
	"errors"
)

// RegisterAgent adds an external HTTP agent to the registry
func (p *Postgres) RegisterAgent(ctx context.Context, name, endpoint, description string) (Agent, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO agents (name, endpoint, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, endpoint, description, created_at
	`, name, endpoint, description)

	var a Agent
	if err := row.Scan(&a.ID, &a.Name, &a.Endpoint, &a.Description, &a.CreatedAt); err != nil {
		return Agent{}, err
	}
	return a, nil
}

// ListAgents returns every registered agent
func (p *Postgres) ListAgents(ctx context.Context) ([]Agent, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, endpoint, description, created_at
		FROM agents
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Agent
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Endpoint, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAgent fetches an agent by ID
func (p *Postgres) GetAgent(ctx context.Context, id string) (Agent, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, name, endpoint, description, created_at
		FROM agents
		WHERE id = $1
	`, id)

	var a Agent
	if err := row.Scan(&a.ID, &a.Name, &a.Endpoint, &a.Description, &a.CreatedAt); err != nil {
		return Agent{}, err
	}
	return a, nil
}

// DeleteAgent removes an agent from the registry
func (p *Postgres) DeleteAgent(ctx context.Context, id string) error {
	ct, err := p.pool.Exec(ctx, `
		DELETE FROM agents WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.New("agent not found")
	}
	return nil
}
