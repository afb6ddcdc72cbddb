package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rowanvale/chirp/internal/auth"
	"github.com/rowanvale/chirp/internal/model"
	"github.com/rowanvale/chirp/internal/store"
)

type UserHandler struct {
	userStore *store.UserStore
	postStore *store.PostStore
	logger    *slog.Logger
}

func NewUserHandler(us *store.UserStore, ps *store.PostStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{userStore: us, postStore: ps, logger: logger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)

	profiles, err := h.userStore.ListProfiles(skip, limit)
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

// GetProfile returns a user's profile page: counters plus their posts,
// enriched for the current viewer.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	profile, err := h.userStore.GetProfileByUsername(username)
	if err != nil {
		h.logger.Error("get user profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	posts, err := h.postStore.ListByUser(profile.ID, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list user posts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}

	writeJSON(w, http.StatusOK, model.ProfileWithPosts{Profile: *profile, Posts: posts})
}

// UpdateMe applies a partial profile edit for the authenticated user.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	var req struct {
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	displayName := user.DisplayName
	if req.DisplayName != nil {
		if dn := strings.TrimSpace(*req.DisplayName); dn != "" {
			displayName = dn
		}
	}
	bio := user.Bio
	if req.Bio != nil {
		bio = req.Bio
	}
	avatarURL := user.AvatarURL
	if req.AvatarURL != nil {
		avatarURL = req.AvatarURL
	}

	updated, err := h.userStore.UpdateProfile(user.ID, displayName, bio, avatarURL)
	if err != nil {
		h.logger.Error("update profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// MyPosts returns the authenticated user's own posts, newest first.
func (h *UserHandler) MyPosts(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	posts, err := h.postStore.ListByUser(user.ID, user.ID)
	if err != nil {
		h.logger.Error("list my posts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}
