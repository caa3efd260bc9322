package worker

import (
	"log/slog"
	"time"
)

// StartSchedule runs the worker once per interval until done is closed.
// Runs are strictly sequential; a failed run is logged and the schedule
// keeps going. Operators must not point two schedules at the same variant.
func StartSchedule(w *Worker, interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := w.Run(); err != nil {
					slog.Error("scheduled expiration run failed",
						"variant", w.variant, "error", err)
				}
			case <-done:
				return
			}
		}
	}()
}
