// Package api serves the booking widget's JSON endpoints.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"barberbook/internal/availability"
	"barberbook/internal/booking"
	"barberbook/internal/handoff"
	"barberbook/internal/schedule"
)

const sessionCookie = "bb_session"

// AvailabilityLoader fetches and normalizes the reservations payload.
type AvailabilityLoader interface {
	Load(ctx context.Context) (availability.Result, error)
}

// BookingSubmitter validates and persists bookings.
type BookingSubmitter interface {
	Submit(ctx context.Context, req booking.Request) (*booking.Result, error)
	Handoff(req booking.Request) (handoff.Link, error)
}

// Deps are the collaborators of the HTTP server.
type Deps struct {
	Loader    AvailabilityLoader
	Submitter BookingSubmitter
	Sessions  *booking.SessionStore
	// Policy returns the schedule currently in force; it may change while
	// the server runs.
	Policy func() *schedule.Policy
	// Location is the shop's clock, used to pick the current month.
	Location *time.Location
	// Limiter throttles booking submissions per client. Nil means unlimited.
	Limiter *ClientLimiter
	Now     func() time.Time
}

// HTTPServer exposes the calendar, session and booking endpoints.
type HTTPServer struct {
	server *http.Server
	deps   Deps
	logger zerolog.Logger
}

// NewHTTPServer builds the server; call Start to listen.
func NewHTTPServer(addr string, timeout time.Duration, deps Deps, logger *zerolog.Logger) *HTTPServer {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "api").Logger()
	}

	s := &HTTPServer{deps: deps, logger: l}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/calendar", s.handleCalendar)
	mux.HandleFunc("/api/calendar.xlsx", s.handleCalendarExport)
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/session/events", s.handleSessionEvent)
	mux.HandleFunc("/api/bookings", s.handleBooking)
	mux.HandleFunc("/api/handoff", s.handleHandoff)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      2 * timeout,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start listens until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("api server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) policy() *schedule.Policy {
	if s.deps.Policy == nil {
		return schedule.DefaultPolicy()
	}
	if p := s.deps.Policy(); p != nil {
		return p
	}
	return schedule.DefaultPolicy()
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
