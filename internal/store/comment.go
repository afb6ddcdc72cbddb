package store

import (
	"database/sql"
	"fmt"

	"github.com/rowanvale/chirp/internal/model"
)

type CommentStore struct {
	db *sql.DB
}

func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const enrichedCommentQuery = `
SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, c.updated_at,
       u.id, u.username, u.email, u.password_hash, u.display_name, u.bio, u.avatar_url, u.is_active, u.created_at, u.updated_at,
       (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS like_count,
       EXISTS (SELECT 1 FROM comment_likes cl WHERE cl.comment_id = c.id AND cl.user_id = ?) AS is_liked
FROM comments c
JOIN users u ON u.id = c.user_id`

func scanEnrichedComment(scanner interface{ Scan(...any) error }) (*model.Comment, error) {
	var c model.Comment
	var u model.User
	var bio, avatarURL sql.NullString
	var userActive, isLiked int

	err := scanner.Scan(
		&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &bio, &avatarURL, &userActive, &u.CreatedAt, &u.UpdatedAt,
		&c.LikeCount, &isLiked,
	)
	if err != nil {
		return nil, err
	}

	u.IsActive = userActive != 0
	if bio.Valid {
		u.Bio = &bio.String
	}
	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	c.Author = &u
	c.IsLiked = isLiked != 0
	return &c, nil
}

func (s *CommentStore) Create(postID, userID int64, content string) (*model.Comment, error) {
	result, err := s.db.Exec(
		`INSERT INTO comments (post_id, user_id, content) VALUES (?, ?, ?)`,
		postID, userID, content,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEnriched(id, userID)
}

// GetByID returns the bare comment row for existence and ownership checks.
func (s *CommentStore) GetByID(id int64) (*model.Comment, error) {
	row := s.db.QueryRow(
		`SELECT id, post_id, user_id, content, created_at, updated_at FROM comments WHERE id = ?`, id,
	)
	var c model.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (s *CommentStore) GetEnriched(id, viewerID int64) (*model.Comment, error) {
	row := s.db.QueryRow(enrichedCommentQuery+` WHERE c.id = ?`, viewerID, id)
	c, err := scanEnrichedComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get enriched comment: %w", err)
	}
	return c, nil
}

// ListForPost returns the post's comments by active authors, oldest first.
func (s *CommentStore) ListForPost(postID, viewerID int64) ([]model.Comment, error) {
	rows, err := s.db.Query(
		enrichedCommentQuery+`
		 WHERE c.post_id = ? AND u.is_active = 1
		 ORDER BY c.created_at, c.id`,
		viewerID, postID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanEnrichedComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (s *CommentStore) Update(id int64, content string) error {
	_, err := s.db.Exec(
		`UPDATE comments SET content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		content, id,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (s *CommentStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// ToggleLike mirrors PostStore.ToggleLike for comments.
func (s *CommentStore) ToggleLike(commentID, userID int64) (bool, int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?`,
		commentID, userID,
	)
	if err != nil {
		return false, 0, fmt.Errorf("unlike comment: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, 0, fmt.Errorf("rows affected: %w", err)
	}

	liked := false
	if removed == 0 {
		if _, err := tx.Exec(
			`INSERT INTO comment_likes (comment_id, user_id) VALUES (?, ?)`,
			commentID, userID,
		); err != nil {
			return false, 0, fmt.Errorf("like comment: %w", err)
		}
		liked = true
	}

	var count int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM comment_likes WHERE comment_id = ?`, commentID,
	).Scan(&count); err != nil {
		return false, 0, fmt.Errorf("count comment likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("commit: %w", err)
	}
	return liked, count, nil
}
