package models

import "time"

// DefaultProfileImage is the media-relative path served
// when a user never uploaded a picture.
const DefaultProfileImage = "default.jpg"

type Profile struct {
	ID        string
	UserID    string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
