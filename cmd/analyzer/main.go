package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/chatbay/ebay-media/pkg/analyzer"
)

// Config holds analyzer service configuration loaded from environment
type Config struct {
	Port string `env:"PORT" env-default:"10000"`

	GalleryURL   string `env:"CHATBAY_GALLERY_URL" env-default:"https://chatbay.site/wp-json/chatbay/v1/gallery"`
	UploadsURL   string `env:"EBAY_UPLOADS_URL" env-default:"https://chatbay.site/ebay-media"`
	AllowedHosts string `env:"ALLOWED_HOSTS"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`

	EbayAppID string `env:"EBAY_APP_ID"`

	DefaultCondition string `env:"DEFAULT_CONDITION" env-default:"preowned"`
	PhotosPerItem    int    `env:"DEFAULT_PHOTOS_PER_ITEM" env-default:"4"`

	Location        string `env:"EBAY_LOCATION" env-default:"Middletown, CT, USA"`
	ShippingProfile string `env:"EBAY_SHIP_PROFILE" env-default:"ADV FREE 2 DAYS"`
	ReturnProfile   string `env:"EBAY_RET_PROFILE" env-default:"No returns accepted"`
	PaymentProfile  string `env:"EBAY_PAY_PROFILE" env-default:"eBay Payments"`

	OpenAPIPath string `env:"OPENAPI_PATH" env-default:"openapi.json"`
}

// allowedHosts returns the configured host allowlist, defaulting to
// the uploads URL host.
func (c Config) allowedHosts() []string {
	if c.AllowedHosts != "" {
		return strings.Split(c.AllowedHosts, ",")
	}
	if u, err := url.Parse(c.UploadsURL); err == nil && u.Host != "" {
		return []string{u.Host}
	}
	return nil
}

func main() {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	a, err := buildAnalyzer(cfg)
	if err != nil {
		log.Fatalf("Failed to build analyzer: %v", err)
	}

	srv := &server{analyzer: a, cfg: cfg}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: srv.routes(),
	}

	go func() {
		slog.Info("Analyzer starting", "port", cfg.Port, "gallery_url", cfg.GalleryURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down analyzer")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
}

func buildAnalyzer(cfg Config) (*analyzer.Analyzer, error) {
	var pricer analyzer.PriceResearcher
	if cfg.EbayAppID != "" {
		pricer = analyzer.NewFindingClient(cfg.EbayAppID, nil)
	}

	return analyzer.New(
		analyzer.WithGalleryClient(analyzer.NewGalleryClient(cfg.GalleryURL, nil, analyzer.DefaultRetryConfig())),
		analyzer.WithSanitizer(analyzer.NewSanitizer(cfg.allowedHosts(), nil)),
		analyzer.WithDescriber(analyzer.NewVisionClient(analyzer.VisionConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
		}, nil)),
		analyzer.WithPriceResearcher(pricer),
		analyzer.WithListingDefaults(analyzer.ListingDefaults{
			Location:        cfg.Location,
			ShippingProfile: cfg.ShippingProfile,
			ReturnProfile:   cfg.ReturnProfile,
			PaymentProfile:  cfg.PaymentProfile,
		}),
	)
}

type server struct {
	analyzer *analyzer.Analyzer
	cfg      Config
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Get("/health", s.handleHealth)
	r.Get("/openapi.json", s.handleOpenAPI)
	r.Get("/gallery", s.handleGallery)
	r.Get("/preview_csv", s.handlePreviewCSV)
	r.Get("/export_csv", s.handleExportCSV)
	r.Get("/export_csv_text", s.handleExportCSVText)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"ok":      true,
		"service": "chatbay-analyzer",
	})
}

// handleOpenAPI serves the plugin manifest from disk when one has been
// deployed alongside the binary.
func (s *server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.cfg.OpenAPIPath)
	if err != nil {
		http.Error(w, "openapi manifest not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *server) handleGallery(w http.ResponseWriter, r *http.Request) {
	groups, err := s.analyzer.Gallery(r.Context())
	if err != nil {
		slog.Error("Failed to fetch gallery", "error", err)
		http.Error(w, "failed to fetch gallery", http.StatusBadGateway)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"total_groups": len(groups),
		"groups":       groups,
	})
}

// options pulls condition and photos_per_item from the query string
func (s *server) options(r *http.Request) analyzer.Options {
	opts := analyzer.Options{
		Condition:     s.cfg.DefaultCondition,
		PhotosPerItem: s.cfg.PhotosPerItem,
	}
	if v := r.URL.Query().Get("condition"); v != "" {
		opts.Condition = v
	}
	if v := r.URL.Query().Get("photos_per_item"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.PhotosPerItem = n
		}
	}
	return opts
}

// handlePreviewCSV analyzes the first two groups and returns rows as
// header-keyed objects for quick inspection.
func (s *server) handlePreviewCSV(w http.ResponseWriter, r *http.Request) {
	opts := s.options(r)

	listings, err := s.analyzer.AnalyzeGroups(r.Context(), opts, 2)
	if err != nil {
		slog.Error("Preview failed", "error", err)
		http.Error(w, "preview failed", http.StatusInternalServerError)
		return
	}

	preview := make([]map[string]string, 0, len(listings))
	for _, row := range s.analyzer.Rows(listings) {
		m := make(map[string]string, len(analyzer.FullHeaders))
		for i, h := range analyzer.FullHeaders {
			m[h] = row[i]
		}
		preview = append(preview, m)
	}

	render.JSON(w, r, map[string]interface{}{
		"preview_count":   len(preview),
		"photos_per_item": opts.PhotosPerItem,
		"condition":       opts.Condition,
		"rows":            preview,
	})
}

// handleExportCSV returns the full CSV base64-encoded so chat surfaces
// can attach it inline instead of following a download link.
func (s *server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	csvText, err := s.analyzer.ExportCSV(r.Context(), s.options(r))
	if err != nil {
		slog.Error("Export failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	preview := csvText
	if len(preview) > 800 {
		preview = preview[:800]
	}

	render.JSON(w, r, map[string]interface{}{
		"ok":          true,
		"filename":    analyzer.ExportFileName(time.Now()),
		"csv_preview": preview,
		"csv_base64":  base64.StdEncoding.EncodeToString([]byte(csvText)),
	})
}

// handleExportCSVText returns the CSV as plain text inside JSON
func (s *server) handleExportCSVText(w http.ResponseWriter, r *http.Request) {
	csvText, err := s.analyzer.ExportCSV(r.Context(), s.options(r))
	if err != nil {
		slog.Error("Export failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"filename": analyzer.ExportFileName(time.Now()),
		"csv_text": csvText,
	})
}
