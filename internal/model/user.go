package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Bio          *string   `json:"bio"`
	AvatarURL    *string   `json:"avatar_url"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is a user enriched with the counters shown on listing and
// profile pages. FollowerCount is always zero; there is no follow graph.
type Profile struct {
	User
	PostCount     int `json:"post_count"`
	FollowerCount int `json:"follower_count"`
}

// ProfileWithPosts is the full profile page payload.
type ProfileWithPosts struct {
	Profile
	Posts []Post `json:"posts"`
}
