package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// timer measures one CLI step. finish logs at info level with an "elapsed"
// key appended to keyvals.
type timer struct {
	logger *log.Logger
	start  time.Time
	now    func() time.Time
}

func startTimer(l *log.Logger) timer {
	return timer{logger: l, start: time.Now(), now: time.Now}
}

func (t timer) elapsed() time.Duration {
	return t.now().Sub(t.start).Round(time.Millisecond)
}

func (t timer) finish(msg string, keyvals ...any) {
	t.logger.Info(msg, append(keyvals, "elapsed", t.elapsed())...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command run.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && l != nil {
		return l
	}
	return log.Default()
}
