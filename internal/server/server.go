// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mcp-max-protein/internal/logging"
	"mcp-max-protein/internal/models"
	"mcp-max-protein/internal/optimizer"
	"mcp-max-protein/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	Host    string
	Port    int
	DBPath  string
	Version string

	// Defaults applied when a tool call omits them.
	BudgetKcal int
	MinKcal    int
	MaxKcal    int
	MaxCount   int

	// ExhaustiveMaxCount caps max_count for exhaustive and compare calls.
	ExhaustiveMaxCount int
}

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type MaxProteinServer struct {
	info       protocol.Implementation
	httpServer *http.Server
	storage    *storage.SQLiteStorage
	catalog    models.Catalog
	config     *Config
	logger     *slog.Logger
	tools      map[string]toolHandler
	stopOnce   sync.Once
	stopErr    error
}

// NewMaxProteinServer opens the catalog database read-only, loads the
// catalog once and prepares the HTTP listener.
func NewMaxProteinServer(cfg *Config, logger *slog.Logger) (*MaxProteinServer, error) {
	stor, err := storage.OpenReadOnly(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	catalog, err := stor.LoadCatalog(context.Background())
	if err != nil {
		stor.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s := newMaxProteinServer(cfg, catalog, logger)
	s.storage = stor
	return s, nil
}

func newMaxProteinServer(cfg *Config, catalog models.Catalog, logger *slog.Logger) *MaxProteinServer {
	if logger == nil {
		logger = slog.Default()
	}

	s := &MaxProteinServer{
		info: protocol.Implementation{
			Name:    "max-protein",
			Version: cfg.Version,
		},
		catalog: catalog,
		config:  cfg,
		logger:  logger.With("component", "server"),
	}
	s.registerTools()
	catalogSize.Set(float64(len(catalog)))

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHTTP)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          logging.NewLogLogger(slog.LevelError),
	}

	return s
}

// Handler exposes the HTTP routes, mainly for tests.
func (s *MaxProteinServer) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *MaxProteinServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Decode the MCP request
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		toolCallsTotal.WithLabelValues("unknown", strconv.Itoa(http.StatusNotFound)).Inc()
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	result, err := handler(r.Context(), &request)
	if err != nil {
		status := statusFor(err)
		toolCallsTotal.WithLabelValues(request.Name, strconv.Itoa(status)).Inc()
		s.logger.Warn("tool call failed", "tool", request.Name, "status", status, "error", err)
		http.Error(w, err.Error(), status)
		return
	}
	toolCallsTotal.WithLabelValues(request.Name, strconv.Itoa(http.StatusOK)).Inc()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("failed to encode response", "tool", request.Name, "error", err)
	}
}

func (s *MaxProteinServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

// statusFor maps tool errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArguments), errors.Is(err, optimizer.ErrTooManyCandidates):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Start serves until Stop is called or ctx is cancelled. The server is
// stopped whenever Start returns, including when the listener fails.
func (s *MaxProteinServer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.Stop()
	}()
	defer func() {
		cancel()
		<-stopped
	}()

	s.logger.Info("starting max protein server",
		"addr", s.httpServer.Addr,
		"server", s.info.Name,
		"version", s.info.Version,
		"foods", len(s.catalog))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the listener down and closes the catalog database. It is safe
// to call more than once.
func (s *MaxProteinServer) Stop() error {
	s.stopOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.stopErr = s.httpServer.Shutdown(ctx)

		if s.storage != nil {
			if err := s.storage.Close(); err != nil {
				s.logger.Warn("failed to close storage", "error", err)
			}
		}
	})
	return s.stopErr
}

func (s *MaxProteinServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
