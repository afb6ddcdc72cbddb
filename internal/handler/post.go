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

type PostHandler struct {
	postStore    *store.PostStore
	commentStore *store.CommentStore
	hub          *realtime.Hub
	logger       *slog.Logger
}

func NewPostHandler(ps *store.PostStore, cs *store.CommentStore, hub *realtime.Hub, logger *slog.Logger) *PostHandler {
	return &PostHandler{postStore: ps, commentStore: cs, hub: hub, logger: logger}
}

func (h *PostHandler) broadcast(ev realtime.Event) {
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
}

type postRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

// List serves the public timeline; is_liked is personalized when a session
// accompanies the request.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)

	posts, err := h.postStore.List(auth.UserID(r.Context()), skip, limit)
	if err != nil {
		h.logger.Error("list posts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	viewerID := auth.UserID(r.Context())

	post, err := h.postStore.GetEnriched(id, viewerID)
	if err != nil {
		h.logger.Error("get post", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	comments, err := h.commentStore.ListForPost(id, viewerID)
	if err != nil {
		h.logger.Error("list post comments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}

	writeJSON(w, http.StatusOK, model.PostWithComments{Post: *post, Comments: comments})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	post, err := h.postStore.Create(user.ID, req.Content, req.ImageURL)
	if err != nil {
		h.logger.Error("create post", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	h.broadcast(realtime.NewEvent("post", "created", post.ID, nil))
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.postStore.GetByID(id)
	if err != nil {
		h.logger.Error("get post", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	if existing.UserID != user.ID {
		writeError(w, http.StatusForbidden, "Not authorized to edit this post")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// Absent fields keep their current values.
	content := existing.Content
	if strings.TrimSpace(req.Content) != "" {
		content = strings.TrimSpace(req.Content)
	}
	imageURL := existing.ImageURL
	if req.ImageURL != nil {
		imageURL = req.ImageURL
	}

	if err := h.postStore.Update(id, content, imageURL); err != nil {
		h.logger.Error("update post", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update post")
		return
	}

	post, err := h.postStore.GetEnriched(id, user.ID)
	if err != nil || post == nil {
		h.logger.Error("get updated post", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update post")
		return
	}

	h.broadcast(realtime.NewEvent("post", "updated", id, nil))
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.postStore.GetByID(id)
	if err != nil {
		h.logger.Error("get post", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	if existing.UserID != user.ID {
		writeError(w, http.StatusForbidden, "Not authorized to delete this post")
		return
	}

	if err := h.postStore.Delete(id); err != nil {
		h.logger.Error("delete post", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}

	h.broadcast(realtime.NewEvent("post", "deleted", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.postStore.GetByID(id)
	if err != nil {
		h.logger.Error("get post", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	liked, count, err := h.postStore.ToggleLike(id, user.ID)
	if err != nil {
		h.logger.Error("toggle post like", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	message := "Post unliked"
	action := "unliked"
	if liked {
		message = "Post liked"
		action = "liked"
	}

	h.broadcast(realtime.NewEvent("post", action, id, map[string]any{"like_count": count}))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    message,
		"like_count": count,
		"is_liked":   liked,
	})
}
