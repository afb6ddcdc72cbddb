package store

import (
	"database/sql"
	"fmt"

	"github.com/rowanvale/chirp/internal/model"
)

type PostStore struct {
	db *sql.DB
}

func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// enrichedPostQuery selects posts joined with their (active) authors plus
// like/comment counts and whether the viewer liked each post, all in one
// query. viewerID 0 means anonymous and matches no likes.
const enrichedPostQuery = `
SELECT p.id, p.user_id, p.content, p.image_url, p.created_at, p.updated_at,
       u.id, u.username, u.email, u.password_hash, u.display_name, u.bio, u.avatar_url, u.is_active, u.created_at, u.updated_at,
       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS like_count,
       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
       EXISTS (SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = ?) AS is_liked
FROM posts p
JOIN users u ON u.id = p.user_id`

func scanEnrichedPost(scanner interface{ Scan(...any) error }) (*model.Post, error) {
	var p model.Post
	var u model.User
	var imageURL, bio, avatarURL sql.NullString
	var userActive, isLiked int

	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Content, &imageURL, &p.CreatedAt, &p.UpdatedAt,
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &bio, &avatarURL, &userActive, &u.CreatedAt, &u.UpdatedAt,
		&p.LikeCount, &p.CommentCount, &isLiked,
	)
	if err != nil {
		return nil, err
	}

	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	u.IsActive = userActive != 0
	if bio.Valid {
		u.Bio = &bio.String
	}
	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	p.Author = &u
	p.IsLiked = isLiked != 0
	return &p, nil
}

func (s *PostStore) Create(userID int64, content string, imageURL *string) (*model.Post, error) {
	result, err := s.db.Exec(
		`INSERT INTO posts (user_id, content, image_url) VALUES (?, ?, ?)`,
		userID, content, nullString(imageURL),
	)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEnriched(id, userID)
}

// GetByID returns the bare post row regardless of author state, for
// existence and ownership checks.
func (s *PostStore) GetByID(id int64) (*model.Post, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, content, image_url, created_at, updated_at FROM posts WHERE id = ?`, id,
	)
	var p model.Post
	var imageURL sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &p.Content, &imageURL, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return &p, nil
}

// GetEnriched returns the post with author and counters, or nil when the
// post is missing or its author is disabled.
func (s *PostStore) GetEnriched(id, viewerID int64) (*model.Post, error) {
	row := s.db.QueryRow(
		enrichedPostQuery+` WHERE p.id = ? AND u.is_active = 1`,
		viewerID, id,
	)
	p, err := scanEnrichedPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get enriched post: %w", err)
	}
	return p, nil
}

// List returns the public timeline: newest posts by active authors.
func (s *PostStore) List(viewerID int64, offset, limit int) ([]model.Post, error) {
	rows, err := s.db.Query(
		enrichedPostQuery+`
		 WHERE u.is_active = 1
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		viewerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanEnrichedPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// ListByUser returns one user's posts, newest first.
func (s *PostStore) ListByUser(userID, viewerID int64) ([]model.Post, error) {
	rows, err := s.db.Query(
		enrichedPostQuery+`
		 WHERE p.user_id = ?
		 ORDER BY p.created_at DESC, p.id DESC`,
		viewerID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts by user: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanEnrichedPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *PostStore) Update(id int64, content string, imageURL *string) error {
	_, err := s.db.Exec(
		`UPDATE posts SET content = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		content, nullString(imageURL), id,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes the post; comments and likes go with it via FK cascade.
func (s *PostStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ToggleLike likes the post for the user, or removes the existing like.
// It returns the new liked state and total like count.
func (s *PostStore) ToggleLike(postID, userID int64) (bool, int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`,
		postID, userID,
	)
	if err != nil {
		return false, 0, fmt.Errorf("unlike post: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, 0, fmt.Errorf("rows affected: %w", err)
	}

	liked := false
	if removed == 0 {
		if _, err := tx.Exec(
			`INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)`,
			postID, userID,
		); err != nil {
			return false, 0, fmt.Errorf("like post: %w", err)
		}
		liked = true
	}

	var count int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM post_likes WHERE post_id = ?`, postID,
	).Scan(&count); err != nil {
		return false, 0, fmt.Errorf("count post likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("commit: %w", err)
	}
	return liked, count, nil
}
