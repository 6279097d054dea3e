package store

import "time"

type Article struct {
	ID        string
	Title     string
	Abstract  string
	Body      []byte
	Version   int64
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Share struct {
	Token     string
	ArticleID string
	CreatedBy string
	ExpiresAt *time.Time
	CreatedAt time.Time
}

type ChatSession struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
}

type Publication struct {
	ID        string
	UserID    string
	Title     string
	Venue     string
	Year      int
	DOI       string
	CreatedAt time.Time
}

type Agent struct {
	ID          string
	Name        string
	Endpoint    string
	Description string
	CreatedAt   time.Time
}
