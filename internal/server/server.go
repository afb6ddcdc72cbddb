package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/rowanvale/chirp/internal/auth"
	"github.com/rowanvale/chirp/internal/handler"
	"github.com/rowanvale/chirp/internal/middleware"
	"github.com/rowanvale/chirp/internal/realtime"
	"github.com/rowanvale/chirp/internal/store"
)

type Server struct {
	db             *sql.DB
	hub            *realtime.Hub
	authSvc        *auth.Service
	sessionStore   *store.SessionStore
	authH          *handler.AuthHandler
	postH          *handler.PostHandler
	commentH       *handler.CommentHandler
	userH          *handler.UserHandler
	allowedOrigins []string
	logger         *slog.Logger
}

func New(db *sql.DB, allowedOrigins []string, logger *slog.Logger) *Server {
	hub := realtime.NewHub(logger.With("component", "realtime"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	postStore := store.NewPostStore(db)
	commentStore := store.NewCommentStore(db)

	authSvc := auth.NewService(userStore, sessionStore, logger.With("component", "auth"))

	return &Server{
		db:             db,
		hub:            hub,
		authSvc:        authSvc,
		sessionStore:   sessionStore,
		authH:          handler.NewAuthHandler(authSvc, logger.With("component", "auth_handler")),
		postH:          handler.NewPostHandler(postStore, commentStore, hub, logger.With("component", "post")),
		commentH:       handler.NewCommentHandler(commentStore, postStore, hub, logger.With("component", "comment")),
		userH:          handler.NewUserHandler(userStore, postStore, logger.With("component", "user")),
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// SessionStore returns the session store for the expiry sweep.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Auth entry points; logout works with or without a live session.
	mux.HandleFunc("POST /auth/register", s.authH.Register)
	mux.HandleFunc("POST /auth/login", s.authH.Login)
	mux.HandleFunc("POST /auth/logout", s.authH.Logout)
	mux.Handle("GET /auth/me", middleware.RequireUser(http.HandlerFunc(s.authH.Me)))

	// Posts: public reads, authenticated writes.
	mux.HandleFunc("GET /posts", s.postH.List)
	mux.HandleFunc("GET /posts/{id}", s.postH.Get)
	mux.Handle("POST /posts", middleware.RequireUser(http.HandlerFunc(s.postH.Create)))
	mux.Handle("PUT /posts/{id}", middleware.RequireUser(http.HandlerFunc(s.postH.Update)))
	mux.Handle("DELETE /posts/{id}", middleware.RequireUser(http.HandlerFunc(s.postH.Delete)))
	mux.Handle("POST /posts/{id}/like", middleware.RequireUser(http.HandlerFunc(s.postH.ToggleLike)))

	// Comments.
	mux.Handle("POST /comments", middleware.RequireUser(http.HandlerFunc(s.commentH.Create)))
	mux.HandleFunc("GET /comments/post/{post_id}", s.commentH.ListForPost)
	mux.Handle("PUT /comments/{id}", middleware.RequireUser(http.HandlerFunc(s.commentH.Update)))
	mux.Handle("DELETE /comments/{id}", middleware.RequireUser(http.HandlerFunc(s.commentH.Delete)))
	mux.Handle("POST /comments/{id}/like", middleware.RequireUser(http.HandlerFunc(s.commentH.ToggleLike)))

	// Users. The literal "me" segments win over the {username} wildcard.
	mux.HandleFunc("GET /users", s.userH.List)
	mux.Handle("PUT /users/me", middleware.RequireUser(http.HandlerFunc(s.userH.UpdateMe)))
	mux.Handle("GET /users/me/posts", middleware.RequireUser(http.HandlerFunc(s.userH.MyPosts)))
	mux.HandleFunc("GET /users/{username}", s.userH.GetProfile)

	// Live feed.
	mux.HandleFunc("GET /ws", realtime.Handler(s.hub, s.logger.With("component", "websocket")))

	// Every route sees the optional resolver; RequireUser upgrades it to
	// required per-route above.
	var h http.Handler = mux
	h = middleware.ResolveUser(s.authSvc, s.logger.With("component", "resolver"))(h)
	h = middleware.CORS(s.allowedOrigins)(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	return h
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"healthy","service":"chirp"}`))
}
