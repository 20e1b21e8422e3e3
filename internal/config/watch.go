package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"barberbook/internal/schedule"
)

// WatchSchedule reloads schedule.yaml on change and calls onUpdate with the
// latest policy. It performs an initial load before entering the watch
// loop; an invalid file at that point is returned as an error, later ones
// are logged and the previous policy stays in force.
func WatchSchedule(ctx context.Context, path string, interval time.Duration, logger *zerolog.Logger, onUpdate func(*schedule.Policy)) error {
	if path == "" {
		path = "configs/schedule.yaml"
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "schedule_watch").Logger()
	}

	policy, err := LoadSchedule(path)
	if err != nil {
		return err
	}
	if onUpdate != nil {
		onUpdate(policy)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := info.ModTime()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				info, err := os.Stat(path)
				if err != nil {
					continue // transient errors
				}
				if !info.ModTime().After(lastMod) {
					continue
				}
				lastMod = info.ModTime()
				policy, err := LoadSchedule(path)
				if err != nil {
					l.Warn().Err(err).Str("path", path).Msg("schedule reload rejected")
					continue
				}
				l.Info().Str("path", path).Msg("schedule reloaded")
				if onUpdate != nil {
					onUpdate(policy)
				}
			}
		}
	}()

	return nil
}
