package models

import "time"

type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
