package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulseboard/internal/config"
	"pulseboard/internal/database"
	"pulseboard/internal/event"
	"pulseboard/internal/handler"
	"pulseboard/internal/redis"
	"pulseboard/internal/repository"
	"pulseboard/internal/service"
	"pulseboard/internal/transport/http/middleware"
)

// Run wires the whole application and serves until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Redis backs request throttling only. Without it the server still runs,
	// just unthrottled.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
	} else {
		log.Println("REDIS_URL not set, request throttling disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Event bus: notifications subscribe to the social writes
	dispatcher := event.NewDispatcher()

	// Services
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	userService := service.NewUserService(userRepo, followRepo)
	followService := service.NewFollowService(followRepo, userRepo, dispatcher)
	postService := service.NewPostService(postRepo, userRepo, likeRepo, commentRepo, dispatcher)
	commentService := service.NewCommentService(commentRepo, postRepo, dispatcher)
	feedService := service.NewFeedService(postRepo, likeRepo, commentRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)

	dispatcher.Subscribe(notificationService)

	// Stale refresh tokens are swept at startup and then daily.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			deleted, err := authService.CleanupExpiredTokens(cleanupCtx)
			cancel()
			if err != nil {
				log.Printf("[Auth] Token cleanup failed: %v", err)
			} else if deleted > 0 {
				log.Printf("[Auth] Deleted %d expired refresh tokens", deleted)
			}
			<-ticker.C
		}
	}()

	// Media is optional: without R2 credentials the upload endpoint is
	// simply not mounted.
	var mediaHandler *handler.MediaHandler
	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		log.Printf("Media uploads disabled: %v", err)
	} else {
		mediaHandler = handler.NewMediaHandler(mediaService)
	}

	var throttle func(stdhttp.Handler) stdhttp.Handler
	if redisClient != nil {
		throttle = middleware.Throttle(redisClient, middleware.ThrottleConfig{
			BurstPerMinute:   cfg.ThrottleBurstPerMinute,
			SustainedPerHour: cfg.ThrottleSustainedPerHour,
		})
	}

	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService),
		UserHandler:         handler.NewUserHandler(userService),
		FollowHandler:       handler.NewFollowHandler(followService),
		PostHandler:         handler.NewPostHandler(postService),
		CommentHandler:      handler.NewCommentHandler(commentService),
		FeedHandler:         handler.NewFeedHandler(feedService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		MediaHandler:        mediaHandler,
		HealthHandler:       handler.NewHealthHandler(db),
		Throttle:            throttle,
		JWTSecret:           cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
