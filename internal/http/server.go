// Package http is the JSON API for the kiosk frontend. Wire keys are the
// German column names of the spreadsheet (name, titel, preis, menge,
// betrag, datum).
package http

import (
	"context"
	"net/http"
	"sync"

	applog "strichliste/internal/log"
	"strichliste/internal/services"
	"strichliste/internal/session"
)

type Server struct {
	http.Server
	sess        *session.Session
	snapshots   *services.SnapshotService
	submissions *services.SubmissionService

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, sess *session.Session, snapshots *services.SnapshotService, submissions *services.SubmissionService, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		sess:        sess,
		snapshots:   snapshots,
		submissions: submissions,
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/daten", s.handleData)
	mux.HandleFunc("GET /api/kontostand", s.handleBalance)
	mux.HandleFunc("POST /api/neuladen", s.handleReload)

	mux.HandleFunc("GET /api/session", s.handleSessionView)
	mux.HandleFunc("POST /api/session/name", s.handleSelectPerson)
	mux.HandleFunc("POST /api/session/menge", s.handleAdjustQuantity)
	mux.HandleFunc("POST /api/session/eigenes", s.handleCustomDraft)
	mux.HandleFunc("POST /api/session/eigenes/taste", s.handleCustomPriceKey)
	mux.HandleFunc("POST /api/session/zahlung/taste", s.handlePaymentKey)
	mux.HandleFunc("DELETE /api/session/zahlung", s.handleResetPayment)

	mux.HandleFunc("POST /api/verzehr", s.handleCharge)
	mux.HandleFunc("POST /api/verzehr/sofort", s.handleChargeAndSettle)
	mux.HandleFunc("POST /api/zahlung", s.handlePayment)

	var handler http.Handler = withSecurityHeaders(mux)
	if logger != nil {
		handler = applog.Middleware(logger)(handler)
	}

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// Handler exposes the configured handler for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
