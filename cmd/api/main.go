package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"localstay/internal/cache"
	"localstay/internal/config"
	"localstay/internal/database"
	"localstay/internal/modules/realtime"
	"localstay/internal/modules/upload"
	"localstay/internal/notification"
	"localstay/internal/pkg/jwt"
	"localstay/internal/repository"
	"localstay/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if isRelease(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(ctx, db, repository.Models()...); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "dialect", db.Dialector.Name())

	remote, err := cache.Open(ctx, cfg.RedisURL, cfg.MemcachedAddr)
	if err != nil {
		// The local cache alone is still correct, only colder.
		slog.Warn("remote cache unavailable, using local cache only", "error", err)
		remote = nil
	}
	stayCache := cache.New(remote, cfg.CacheTTL)
	defer stayCache.Close()

	notifier, closeNotifier := buildNotifier(cfg)
	defer closeNotifier()

	var images upload.Store
	if cfg.Cloudinary.Enabled() {
		store, err := upload.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
		if err != nil {
			slog.Error("cloudinary setup failed", "error", err)
			os.Exit(1)
		}
		images = store
	} else {
		slog.Warn("cloudinary not configured, image upload disabled")
	}

	hub := realtime.NewHub()

	router := server.NewRouter(server.Options{
		DB:          db,
		Tokens:      jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL),
		Cache:       stayCache,
		Hub:         hub,
		Logger:      logger,
		Notifier:    notifier,
		Images:      images,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Websockets are hijacked and not tracked by Shutdown.
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if n, ok := notifier.(*notification.Async); ok {
		if err := n.Wait(shutdownCtx); err != nil {
			slog.Warn("pending notifications dropped", "error", err)
		}
	}
	slog.Info("server stopped")
}

// buildNotifier fans owner-signup notifications out to every configured sink,
// delivered in the background.
func buildNotifier(cfg *config.Config) (notification.Notifier, func()) {
	var sinks notification.Multi
	closeFn := func() {}

	if cfg.NotifyWebhookURL != "" {
		sinks = append(sinks, notification.NewWebhook(cfg.NotifyWebhookURL))
	}
	if cfg.AMQPURL != "" {
		pub, err := notification.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			slog.Warn("amqp notifications disabled", "error", err)
		} else {
			sinks = append(sinks, pub)
			closeFn = func() {
				if err := pub.Close(); err != nil {
					slog.Warn("amqp close failed", "error", err)
				}
			}
		}
	}

	if len(sinks) == 0 {
		slog.Info("no notification sinks configured")
		return notification.Nop{}, closeFn
	}
	return notification.NewAsync(sinks, 10*time.Second), closeFn
}

func isRelease(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}
