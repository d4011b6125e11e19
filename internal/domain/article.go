package domain

import "time"

// Article is an editorial item published through the backend.
type Article struct {
	ID         int64
	Title      string
	Content    string
	ArticleURL string
	ImageKey   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
