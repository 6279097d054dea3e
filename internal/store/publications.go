package store

import "context"

// CreatePublication records a publication entry for the user
func (p *Postgres) CreatePublication(ctx context.Context, userID, title, venue, doi string, year int) (Publication, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO publications (user_id, title, venue, year, doi)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, title, venue, year, doi, created_at
	`, userID, title, venue, year, doi)

	var pub Publication
	if err := row.Scan(&pub.ID, &pub.UserID, &pub.Title, &pub.Venue, &pub.Year, &pub.DOI, &pub.CreatedAt); err != nil {
		return Publication{}, err
	}
	return pub, nil
}

// ListPublications returns the user's publications, newest year first
func (p *Postgres) ListPublications(ctx context.Context, userID string, limit, offset int) ([]Publication, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, title, venue, year, doi, created_at
		FROM publications
		WHERE user_id = $1
		ORDER BY year DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Publication
	for rows.Next() {
		var pub Publication
		if err := rows.Scan(&pub.ID, &pub.UserID, &pub.Title, &pub.Venue, &pub.Year, &pub.DOI, &pub.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pub)
	}
	return out, rows.Err()
}

// GetPublication fetches one publication by ID
func (p *Postgres) GetPublication(ctx context.Context, id string) (Publication, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, user_id, title, venue, year, doi, created_at
		FROM publications
		WHERE id = $1
	`, id)

	var pub Publication
	if err := row.Scan(&pub.ID, &pub.UserID, &pub.Title, &pub.Venue, &pub.Year, &pub.DOI, &pub.CreatedAt); err != nil {
		return Publication{}, err
	}
	return pub, nil
}
