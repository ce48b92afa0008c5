package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/attendly/rollcall-backend/internal/service"
)

// RolloverWorker resets every student to absent once a day, so each school
// day starts with a clean roster. Disabled unless a valid hour (0-23) is
// configured.
type RolloverWorker struct {
	svc  *service.AttendanceService
	hour int
	log  zerolog.Logger
}

// NewRolloverWorker creates a new RolloverWorker firing at the given local hour.
func NewRolloverWorker(svc *service.AttendanceService, hour int, log zerolog.Logger) *RolloverWorker {
	return &RolloverWorker{
		svc:  svc,
		hour: hour,
		log:  log.With().Str("component", "rollover_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled. Call in a goroutine.
func (w *RolloverWorker) Start(ctx context.Context) {
	if w.hour < 0 || w.hour > 23 {
		w.log.Info().Int("hour", w.hour).Msg("Rollover disabled")
		return
	}

	w.log.Info().Int("hour", w.hour).Msg("Worker started")

	for {
		timer := time.NewTimer(time.Until(w.nextRun(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			w.log.Info().Msg("Worker stopped")
			return
		case <-timer.C:
			w.rollover(ctx)
		}
	}
}

func (w *RolloverWorker) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), w.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (w *RolloverWorker) rollover(ctx context.Context) {
	touched, err := w.svc.ResetAll(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Rollover failed")
		return
	}
	w.log.Info().Int("students", touched).Msg("Roster reset to absent")
}
