package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rowanvale/chirp/internal/auth"
	"github.com/rowanvale/chirp/internal/model"
	"github.com/rowanvale/chirp/internal/realtime"
	"github.com/rowanvale/chirp/internal/store"
)

type CommentHandler struct {
	commentStore *store.CommentStore
	postStore    *store.PostStore
	hub          *realtime.Hub
	logger       *slog.Logger
}

func NewCommentHandler(cs *store.CommentStore, ps *store.PostStore, hub *realtime.Hub, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{commentStore: cs, postStore: ps, hub: hub, logger: logger}
}

func (h *CommentHandler) broadcast(ev realtime.Event) {
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	var req struct {
		PostID  int64  `json:"post_id"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	post, err := h.postStore.GetByID(req.PostID)
	if err != nil {
		h.logger.Error("get post", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	comment, err := h.commentStore.Create(req.PostID, user.ID, req.Content)
	if err != nil {
		h.logger.Error("create comment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	h.broadcast(realtime.NewEvent("comment", "created", comment.ID, map[string]any{"post_id": req.PostID}))
	writeJSON(w, http.StatusOK, comment)
}

// ListForPost returns a post's comments; is_liked is personalized for
// authenticated viewers.
func (h *CommentHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID, err := parseIDParam(r, "post_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.postStore.GetByID(postID)
	if err != nil {
		h.logger.Error("get post", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	comments, err := h.commentStore.ListForPost(postID, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list comments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.commentStore.GetByID(id)
	if err != nil {
		h.logger.Error("get comment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get comment")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if existing.UserID != user.ID {
		writeError(w, http.StatusForbidden, "Not authorized to edit this comment")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	content := existing.Content
	if strings.TrimSpace(req.Content) != "" {
		content = strings.TrimSpace(req.Content)
	}

	if err := h.commentStore.Update(id, content); err != nil {
		h.logger.Error("update comment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update comment")
		return
	}

	comment, err := h.commentStore.GetEnriched(id, user.ID)
	if err != nil || comment == nil {
		h.logger.Error("get updated comment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update comment")
		return
	}

	h.broadcast(realtime.NewEvent("comment", "updated", id, map[string]any{"post_id": comment.PostID}))
	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.commentStore.GetByID(id)
	if err != nil {
		h.logger.Error("get comment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get comment")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if existing.UserID != user.ID {
		writeError(w, http.StatusForbidden, "Not authorized to delete this comment")
		return
	}

	if err := h.commentStore.Delete(id); err != nil {
		h.logger.Error("delete comment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	h.broadcast(realtime.NewEvent("comment", "deleted", id, map[string]any{"post_id": existing.PostID}))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}

func (h *CommentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.commentStore.GetByID(id)
	if err != nil {
		h.logger.Error("get comment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get comment")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}

	liked, count, err := h.commentStore.ToggleLike(id, user.ID)
	if err != nil {
		h.logger.Error("toggle comment like", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	message := "Comment unliked"
	action := "unliked"
	if liked {
		message = "Comment liked"
		action = "liked"
	}

	h.broadcast(realtime.NewEvent("comment", action, id, map[string]any{"like_count": count}))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    message,
		"like_count": count,
		"is_liked":   liked,
	})
}
