package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pulseboard/internal/handler"
	authmw "pulseboard/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	FollowHandler       *handler.FollowHandler
	PostHandler         *handler.PostHandler
	CommentHandler      *handler.CommentHandler
	FeedHandler         *handler.FeedHandler
	NotificationHandler *handler.NotificationHandler
	MediaHandler        *handler.MediaHandler
	HealthHandler       *handler.HealthHandler
	Throttle            func(stdhttp.Handler) stdhttp.Handler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", cfg.HealthHandler.Check)

	optional := authmw.OptionalAuthMiddleware(cfg.JWTSecret)
	required := authmw.AuthMiddleware(cfg.JWTSecret)

	// Throttling keys on the authenticated user, so it sits after the auth
	// middleware in every group.
	throttle := cfg.Throttle
	if throttle == nil {
		throttle = func(next stdhttp.Handler) stdhttp.Handler { return next }
	}

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Use(throttle)
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Public reads with optional authentication (viewer annotations)
	r.Group(func(r chi.Router) {
		r.Use(optional)
		r.Use(throttle)

		r.Get("/users", cfg.UserHandler.Search)
		r.Get("/users/{username}", cfg.UserHandler.GetProfile)
		r.Get("/users/{username}/followers", cfg.FollowHandler.GetFollowers)
		r.Get("/users/{username}/following", cfg.FollowHandler.GetFollowing)
		r.Get("/users/{username}/posts", cfg.PostHandler.GetUserPosts)

		r.Get("/posts/{id}", cfg.PostHandler.GetByID)
		r.Get("/posts/{id}/comments", cfg.CommentHandler.List)

		r.Get("/feed/global", cfg.FeedHandler.Global)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(required)
		r.Use(throttle)

		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		r.Get("/me", cfg.UserHandler.Me)
		r.Put("/me", cfg.UserHandler.UpdateMe)

		r.Post("/users/{username}/follow", cfg.FollowHandler.Follow)
		r.Delete("/users/{username}/follow", cfg.FollowHandler.Unfollow)

		r.Get("/feed", cfg.FeedHandler.Personal)

		r.Post("/posts", cfg.PostHandler.Create)
		r.Put("/posts/{id}", cfg.PostHandler.Update)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)
		r.Post("/posts/{id}/like", cfg.PostHandler.Like)
		r.Delete("/posts/{id}/like", cfg.PostHandler.Unlike)

		r.Post("/posts/{id}/comments", cfg.CommentHandler.Create)
		r.Put("/comments/{id}", cfg.CommentHandler.Update)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Post("/{id}/read", cfg.NotificationHandler.MarkRead)
			r.Post("/read-all", cfg.NotificationHandler.MarkAllRead)
		})

		if cfg.MediaHandler != nil {
			r.Post("/media/images", cfg.MediaHandler.UploadImage)
			r.Delete("/media/images/{key}", cfg.MediaHandler.DeleteImage)
		}
	})

	return r
}
