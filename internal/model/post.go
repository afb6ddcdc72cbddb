package model

import "time"

type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Enrichment filled by the store's joined queries.
	Author       *User `json:"author,omitempty"`
	LikeCount    int   `json:"like_count"`
	CommentCount int   `json:"comment_count"`
	IsLiked      bool  `json:"is_liked"`
}

// PostWithComments is the single-post page payload.
type PostWithComments struct {
	Post
	Comments []Comment `json:"comments"`
}

type PostLike struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
