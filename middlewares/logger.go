package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/polynode-io/polynode-boilerplate-webserver/internal"
)

type statusRecorder interface {
	Status() int
	Size() int64
}

// RequestLogger returns a pre-hook that logs one line per request once the
// pipeline is done: 5xx at error, 4xx at warn, everything else at info.
func RequestLogger() internal.Stage {
	return func(c internal.Context) error {
		start := time.Now()
		c.Defer(func() {
			status := http.StatusOK
			var size int64
			if rec, ok := c.Response().(statusRecorder); ok {
				status, size = rec.Status(), rec.Size()
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			c.Log(level, "request completed",
				slog.Int("status", status),
				slog.Int64("bytes", size),
				slog.Duration("duration", time.Since(start)),
			)
		})
		return nil
	}
}
