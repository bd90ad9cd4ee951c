package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"marketchoice.org/web/internal/catalog"
	"marketchoice.org/web/internal/config"
	"marketchoice.org/web/internal/content"
	"marketchoice.org/web/internal/images"
	mw "marketchoice.org/web/internal/middleware"
	"marketchoice.org/web/internal/rtdb"
	"marketchoice.org/web/internal/view"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	devMode      bool
	tmplCache    *template.Template

	logger   *zap.Logger
	store    *catalog.Store
	loader   *images.Loader
	pages    *content.Library
	pageSize = view.DefaultPageSize
	baseURL  string
)

func main() {
	ctx := context.Background()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "marketchoice.yml", "config file path")
	flag.Parse()

	var err error
	logger, err = newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	templatesDir = cfg.TemplatesDir
	publicDir = cfg.PublicDir
	pageSize = cfg.PageSize
	baseURL = cfg.BaseURL
	devMode = cfg.Dev || os.Getenv("DEV") != ""

	if !devMode {
		// Parse templates once in production
		tc, err := parseTemplates()
		if err != nil {
			logger.Fatal("parse templates", zap.Error(err))
		}
		tmplCache = tc
	}

	store = catalog.NewStore()
	pages = content.NewLibrary(cfg.ContentDir)

	// The storefront stays up without a data source, serving an empty
	// catalog, so a misconfigured deploy degrades instead of crash-looping.
	var source catalog.Source = emptySource{}
	if cfg.DatabaseURL == "" {
		logger.Warn("database_url not configured, serving empty catalog")
	} else if client, err := rtdb.NewClient(ctx, rtdb.Config{
		DatabaseURL: cfg.DatabaseURL,
		Timeout:     cfg.FetchTimeout,
		LoadRetries: cfg.LoadRetries,
		Logger:      logger,
	}); err != nil {
		logger.Warn("data source unavailable, serving empty catalog", zap.Error(err))
	} else {
		source = client
	}
	loader = images.NewLoader(source, logger)

	// The bulk load gates all rendering: the server only starts accepting
	// requests once it has either a catalog or a definitive failure, in
	// which case the storefront stays up with an empty categories view.
	if cat, err := source.LoadCatalog(ctx); err != nil {
		logger.Warn("catalog load failed, serving empty catalog", zap.Error(err))
	} else {
		store.Replace(cat)
		logger.Info("catalog loaded", zap.Int("categories", cat.Len()))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           buildRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	logger.Info("storefront listening",
		zap.String("addr", cfg.Addr),
		zap.Bool("dev", devMode),
	)

	<-runCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assets := http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets")))
	r.Handle("/assets/*", assets)

	r.Get("/", IndexHandler)
	r.Get("/frag/view", ViewFragHandler)
	r.Get("/images/{key}", ImageHandler)
	r.Get("/pages/{slug}", ContentPageHandler)
	r.Get("/sitemap.xml", staticFileHandler("sitemap.xml", "application/xml; charset=utf-8"))
	r.Get("/robots.txt", staticFileHandler("robots.txt", "text/plain; charset=utf-8"))

	return r
}

func staticFileHandler(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(publicDir, name)
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		http.ServeFile(w, r, path)
	}
}

func newLogger() (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))))); err != nil {
		_ = level.UnmarshalText([]byte("info"))
	}
	cfg := zap.Config{
		Level:    level,
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "message",
			TimeKey:    "timestamp",
			LevelKey:   "severity",
			EncodeTime: zapcore.RFC3339NanoTimeEncoder,
			EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
				enc.AppendString(strings.ToUpper(l.String()))
			},
		},
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	return cfg.Build()
}

// emptySource stands in when the real data source cannot be initialised.
// The storefront stays navigable with an empty catalog and placeholders.
type emptySource struct{}

func (emptySource) LoadCatalog(ctx context.Context) (catalog.Catalog, error) {
	return catalog.Catalog{}, nil
}

func (emptySource) LoadImage(ctx context.Context, key string) (string, error) {
	return "", catalog.ErrNotFound
}
