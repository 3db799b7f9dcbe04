package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/vedran77/ripple/internal/config"
	"github.com/vedran77/ripple/internal/database"
	mongorepo "github.com/vedran77/ripple/internal/repository/mongo"
	"github.com/vedran77/ripple/internal/service"
	"github.com/vedran77/ripple/internal/transport/http/handlers"
	"github.com/vedran77/ripple/internal/transport/http/middleware"
	"github.com/vedran77/ripple/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Env)

	// Database
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		logger.Error("database connect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := mongorepo.Bootstrap(ctx, db); err != nil {
		logger.Error("database bootstrap failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to database", slog.String("db", cfg.MongoDB))

	// Repositories
	userRepo := mongorepo.NewUserRepo(db)
	postRepo := mongorepo.NewPostRepo(db)
	commentRepo := mongorepo.NewCommentRepo(db)
	tokenRepo := mongorepo.NewTokenRepo(db)

	// WebSocket hub + notifier
	hub := ws.NewHub(logger)
	go hub.Run()
	notifier := ws.NewHubNotifier(hub, logger)

	// Services
	authService := service.NewAuthService(userRepo, tokenRepo, cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, logger)
	userService := service.NewUserService(userRepo, tokenRepo, logger)
	relService := service.NewRelationshipService(userRepo, notifier, logger)
	postService := service.NewPostService(postRepo, userRepo, notifier, logger)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, notifier, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	relHandler := handlers.NewRelationshipHandler(relService, logger)
	postHandler := handlers.NewPostHandler(postService, logger)
	commentHandler := handlers.NewCommentHandler(commentService, logger)

	// Auth middleware
	auth := middleware.Auth(tokenRepo, cfg.AccessSecret, logger)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/users", authHandler.Signup)
	mux.HandleFunc("POST /api/users/login", authHandler.Login)
	mux.HandleFunc("POST /api/users/token", authHandler.Refresh)

	// Protected - Users
	mux.Handle("POST /api/users/logout", auth(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/users/self", auth(http.HandlerFunc(userHandler.Self)))
	mux.Handle("GET /api/users", auth(http.HandlerFunc(userHandler.List)))
	mux.Handle("GET /api/users/id/{userId}", auth(http.HandlerFunc(userHandler.Get)))
	mux.Handle("GET /api/users/username/{userId}", auth(http.HandlerFunc(userHandler.Username)))
	mux.Handle("GET /api/users/info/{username}", auth(http.HandlerFunc(userHandler.GetByUsername)))
	mux.Handle("GET /api/users/find/{term}", auth(http.HandlerFunc(userHandler.Search)))
	mux.Handle("PATCH /api/users", auth(http.HandlerFunc(userHandler.Update)))
	mux.Handle("DELETE /api/users", auth(http.HandlerFunc(userHandler.Delete)))

	// Protected - Relationships
	mux.Handle("POST /api/users/follow/{id}", auth(http.HandlerFunc(relHandler.Follow)))
	mux.Handle("DELETE /api/users/follow/{id}", auth(http.HandlerFunc(relHandler.Unfollow)))
	mux.Handle("POST /api/users/block/{id}", auth(http.HandlerFunc(relHandler.Block)))
	mux.Handle("DELETE /api/users/block/{id}", auth(http.HandlerFunc(relHandler.Unblock)))

	// Protected - Posts
	mux.Handle("GET /api/posts", auth(http.HandlerFunc(postHandler.List)))
	mux.Handle("POST /api/posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("GET /api/posts/feed", auth(http.HandlerFunc(postHandler.Feed)))
	mux.Handle("GET /api/posts/liked", auth(http.HandlerFunc(postHandler.Liked)))
	mux.Handle("GET /api/posts/{postId}", auth(http.HandlerFunc(postHandler.Get)))
	mux.Handle("DELETE /api/posts/{postId}", auth(http.HandlerFunc(postHandler.Delete)))
	mux.Handle("GET /api/posts/tags/{tags}", auth(http.HandlerFunc(postHandler.ListByTags)))
	mux.Handle("GET /api/posts/user/{userId}", auth(http.HandlerFunc(postHandler.ListByUser)))
	mux.Handle("GET /api/posts/user/{userId}/page/{page}", auth(http.HandlerFunc(postHandler.ListByUserPage)))
	mux.Handle("POST /api/posts/like/{postId}", auth(http.HandlerFunc(postHandler.Like)))
	mux.Handle("DELETE /api/posts/like/{postId}", auth(http.HandlerFunc(postHandler.Unlike)))

	// Protected - Comments
	mux.Handle("POST /api/comments/post/{postId}", auth(http.HandlerFunc(commentHandler.Create)))
	mux.Handle("GET /api/comments/post/{postId}", auth(http.HandlerFunc(commentHandler.ListByPost)))
	mux.Handle("GET /api/comments/{commentId}", auth(http.HandlerFunc(commentHandler.Get)))
	mux.Handle("DELETE /api/comments/{commentId}", auth(http.HandlerFunc(commentHandler.Delete)))
	mux.Handle("POST /api/comments/like/{commentId}", auth(http.HandlerFunc(commentHandler.Like)))
	mux.Handle("DELETE /api/comments/like/{commentId}", auth(http.HandlerFunc(commentHandler.Unlike)))

	// WebSocket notifications
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, tokenRepo, cfg.AccessSecret, logger))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("starting server", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, middleware.CORS(mux)); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	if env == "prod" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
