package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fretelab/mlfrete/internal/telemetry"
	"github.com/fretelab/mlfrete/pkg/quote"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the quoting service.
type Server struct {
	port    int
	coord   *quote.Coordinator
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, coord *quote.Coordinator, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{
		port:    cfg.Port,
		coord:   coord,
		logger:  logger,
		metrics: metrics,
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Batch quote endpoint
	mux.HandleFunc("/quotes", s.handleQuotes)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Quote request/response types
type quoteRequest struct {
	AdIDs   string `json:"ad_ids"`
	ZipCode string `json:"zip_code"`
}

type quoteResult struct {
	Input    string   `json:"input"`
	AdID     string   `json:"ad_id,omitempty"`
	Status   string   `json:"status"`
	Cost     *float64 `json:"cost,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

type quoteResponse struct {
	BatchID string        `json:"batch_id"`
	ZipCode string        `json:"zip_code"`
	Results []quoteResult `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Per-entry statuses in the quotes response.
const (
	statusOK      = "ok"
	statusFailed  = "failed"
	statusInvalid = "invalid"
)

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(errorResponse{Error: "Method not allowed, use POST"})
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{Error: "Invalid JSON: " + err.Error()})
		return
	}

	// ZIP validation is the gate: the coordinator is never invoked with an
	// unnormalized ZIP code.
	zipCode, ok := quote.NormalizeZipCode(req.ZipCode)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{Error: "Invalid ZIP code. Must be 8 digits (e.g., 01001000)."})
		return
	}

	if len(quote.SplitAdIDs(req.AdIDs)) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{Error: "Please enter at least one ad ID."})
		return
	}

	batchID := uuid.New().String()
	start := time.Now()

	entries := s.coord.ProcessBatch(r.Context(), req.AdIDs, zipCode)

	s.metrics.RecordBatch(time.Since(start).Seconds())
	s.logger.Info("Processed quote batch",
		zap.String("batch_id", batchID),
		zap.Int("entries", len(entries)),
	)

	results := make([]quoteResult, len(entries))
	for i, e := range entries {
		results[i] = entryToResult(e)
		s.metrics.RecordFetch(results[i].Status, entryCode(e))
	}

	json.NewEncoder(w).Encode(quoteResponse{
		BatchID: batchID,
		ZipCode: zipCode,
		Results: results,
	})
}

func entryToResult(e quote.Entry) quoteResult {
	switch {
	case e.Invalid():
		return quoteResult{
			Input:  e.Raw,
			Status: statusInvalid,
			Reason: fmt.Sprintf("Invalid ad ID: %s. Must be in the format MLB followed by numbers.", e.Raw),
		}
	case e.OK():
		cost := e.Cost.Amount
		return quoteResult{
			Input:    e.Raw,
			AdID:     e.AdID,
			Status:   statusOK,
			Cost:     &cost,
			Currency: e.Cost.Currency,
		}
	default:
		return quoteResult{
			Input:  e.Raw,
			AdID:   e.AdID,
			Status: statusFailed,
			Reason: quote.Reason(e.Err),
		}
	}
}

func entryCode(e quote.Entry) string {
	switch {
	case e.Invalid():
		return "INVALID_INPUT"
	case e.OK():
		return "none"
	default:
		return quote.Code(e.Err)
	}
}
