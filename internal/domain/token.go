package domain

import "time"

// RefreshToken is a persisted session credential. At most one live row
// exists per user; rotation replaces the full set atomically.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}

// Age reports how long ago the token was issued.
func (t RefreshToken) Age(now time.Time) time.Duration {
	return now.Sub(t.CreatedAt)
}
