// Package server exposes the audit report over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/abiiranathan/rex"

	"github.com/abiiranathan/twigcheck/audit"
)

// RunFunc performs one audit.
type RunFunc func(ctx context.Context) (*audit.Report, error)

// Handler serves the report endpoints.
type Handler struct {
	run    RunFunc
	logger *slog.Logger
}

// NewRouter returns a router with:
//
//	GET /report   runs the audit and returns the JSON report
//	GET /healthz  liveness probe
//
// A failed audit (missing registry or roots) is returned to the router as an
// error and becomes a 5xx response.
func NewRouter(run RunFunc, logger *slog.Logger) *rex.Router {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{run: run, logger: logger}

	r := rex.NewRouter()
	r.GET("/report", h.Report)
	r.GET("/healthz", h.Health)
	return r
}

// Report runs the audit for the request.
func (h *Handler) Report(c *rex.Context) error {
	start := time.Now()
	rep, err := h.run(c.Request.Context())
	if err != nil {
		h.logger.Error("audit failed", "err", err)
		return err
	}
	h.logger.Info("report served",
		"orphans", len(rep.Orphans),
		"invalid", len(rep.Invalid),
		"elapsed", time.Since(start),
	)
	return c.JSON(rep)
}

// Health reports that the server is up.
func (h *Handler) Health(c *rex.Context) error {
	return c.JSON(rex.Map{"status": "ok"})
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
