package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/robfig/cron/v3"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
	"github.com/chatbay/ebay-media/pkg/ebaymedia/api"
	"github.com/chatbay/ebay-media/pkg/ebaymedia/config"
	"github.com/chatbay/ebay-media/pkg/ebaymedia/urlstrategy"
)

func main() {
	cfg, err := config.Load(config.WithEnv(""))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	svc, cleanup, err := cfg.BuildService(ctx)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}
	defer cleanup()

	// Scheduled permission repair of the media tree.
	scheduler := cron.New()
	if cfg.RepairSchedule != "" {
		_, err := scheduler.AddFunc(cfg.RepairSchedule, func() {
			report, err := svc.RepairPermissions(context.Background())
			if err != nil {
				slog.Error("Scheduled repair failed", "error", err)
				return
			}
			slog.Info("Scheduled repair finished",
				"dirs_fixed", report.DirsFixed,
				"files_fixed", report.FilesFixed,
				"failures", report.Failures)
		})
		if err != nil {
			log.Fatalf("Invalid repair schedule %q: %v", cfg.RepairSchedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: routes(svc),
	}

	go func() {
		slog.Info("Media server starting",
			"port", cfg.Port,
			"env", cfg.Environment,
			"storage", cfg.Storage.Type)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exiting")
}

func routes(svc ebaymedia.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	gallery := api.NewGalleryHandler(svc)
	media := api.NewMediaHandler(svc)

	r.Get("/health", handleHealth)

	// Chat surfaces still call the legacy WordPress-era route.
	r.Mount("/wp-json/chatbay/v1", gallery.Routes())

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/gallery", gallery.Routes())
		r.Mount("/media", media.Routes())
		r.Mount("/admin", media.AdminRoutes())
	})

	// Public media directory.
	r.Mount("/"+urlstrategy.MediaPath, media.ServeRoutes())

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"service": "ebay-media",
	})
}
