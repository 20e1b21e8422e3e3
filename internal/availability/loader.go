package availability

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"barberbook/internal/metrics"
)

// Fetcher returns the raw reservations payload of the remote store.
type Fetcher interface {
	FetchAvailability(ctx context.Context) (map[string]any, error)
}

// Invalidator is implemented by fetchers that cache the payload.
type Invalidator interface {
	InvalidateAvailability(ctx context.Context) error
}

// Loader fetches and normalizes availability.
type Loader struct {
	fetcher Fetcher
	opts    Options
	logger  zerolog.Logger
}

// NewLoader creates a loader over fetcher.
func NewLoader(fetcher Fetcher, opts Options, logger *zerolog.Logger) *Loader {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "availability").Logger()
	}
	return &Loader{fetcher: fetcher, opts: opts, logger: l}
}

// Load fetches the payload and normalizes it. On a fetch failure the
// returned Result holds an empty map and the error is returned alongside,
// so callers can keep rendering a fully free calendar.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	start := time.Now()
	raw, err := l.fetcher.FetchAvailability(ctx)
	if err != nil {
		metrics.IncAvailabilityLoad("error")
		l.logger.Error().Err(err).Msg("load reservations failed")
		return Result{Map: Map{}}, err
	}

	res := Normalize(raw, l.opts)
	metrics.IncAvailabilityLoad("ok")
	metrics.AddNormalizeWarnings(len(res.Warnings))
	for _, w := range res.Warnings {
		l.logger.Warn().Str("key", w.Key).Interface("value", w.Value).Msg(w.Reason)
	}
	l.logger.Debug().
		Int("dates", len(res.Map)).
		Int("dropped", len(res.Warnings)).
		Dur("took", time.Since(start)).
		Msg("reservations loaded")
	return res, nil
}

// Refresh drops any cached payload before loading, so a booking that was
// just sent shows up immediately.
func (l *Loader) Refresh(ctx context.Context) (Map, error) {
	if inv, ok := l.fetcher.(Invalidator); ok {
		if err := inv.InvalidateAvailability(ctx); err != nil {
			l.logger.Warn().Err(err).Msg("invalidate availability cache")
		}
	}
	res, err := l.Load(ctx)
	return res.Map, err
}
