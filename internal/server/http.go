package server

import (
	"fmt"
	"time"

	"resumescore/internal/analysis"
	"resumescore/internal/catalog"
	"resumescore/internal/config"
	resumescoreErrors "resumescore/internal/errors"
	"resumescore/internal/feedback"
	"resumescore/internal/store"
	"resumescore/internal/types"
)

// AnalyzeRequest represents the request body for the analyze endpoint
type AnalyzeRequest struct {
	Text    string `json:"text"`
	JobRole string `json:"jobRole"`
}

// AnalyzeResponse wraps an analysis report with its storage metadata.
// ID is empty when history storage is disabled.
type AnalyzeResponse struct {
	ID        string `json:"id,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	WordCount int    `json:"wordCount"`
	types.AnalysisReport
}

// RolesResponse lists the job roles the skill catalog knows about.
type RolesResponse struct {
	Roles       []string `json:"roles"`
	DefaultRole string   `json:"defaultRole"`
}

// HistoryResponse carries recent analysis records, newest first.
type HistoryResponse struct {
	Analyses []store.Record `json:"analyses"`
	Count    int            `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration and dependencies for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limits
	MaxRequestSize int64
	MaxUploadSize  int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Analysis pipeline
	Catalog   *catalog.Catalog
	Generator feedback.Generator
	Analyzer  *analysis.Analyzer

	// Analysis history, nil when storage is disabled
	Store *store.Store

	// Catalog hot reload, nil unless watching is configured
	catalogWatcher *catalog.Watcher

	// Logger
	Logger *resumescoreErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	MaxUploadSize  int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct,
// wiring the skill catalog, feedback generator, analyzer, and history
// store from the application configuration.
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *resumescoreErrors.Logger) (*Server, error) {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	cat := catalog.New()
	if appCfg.Catalog.File != "" {
		if err := cat.LoadFile(appCfg.Catalog.File); err != nil {
			return nil, fmt.Errorf("failed to load catalog file: %w", err)
		}
		logger.Info("Loaded skill catalog from file",
			"file", appCfg.Catalog.File,
			"roles", len(cat.Roles()))
	}

	generator, err := feedback.NewGenerator(&appCfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback generator: %w", err)
	}

	var historyStore *store.Store
	if appCfg.Storage.Enabled {
		historyStore, err = store.Open(appCfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		logger.Info("Analysis history storage enabled", "path", appCfg.Storage.Path)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		MaxUploadSize:  cfg.MaxUploadSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Catalog:        cat,
		Generator:      generator,
		Analyzer:       analysis.NewAnalyzer(cat, generator, logger),
		Store:          historyStore,
		Logger:         logger,
	}, nil
}
