package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// Setup builds the process logger. local writes text to stdout, dev and prod
// write zerolog JSON. When sentryDSN is set, errors are also shipped to Sentry;
// the returned flush func must be called before exit.
func Setup(env, sentryDSN string) (*slog.Logger, func()) {
	var handler slog.Handler

	switch env {
	case envDev:
		handler = zerologHandler(slog.LevelDebug)
	case envProd:
		handler = zerologHandler(slog.LevelInfo)
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	flush := func() {}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         sentryDSN,
			Environment: env,
		})
		if err != nil {
			slog.New(handler).Error("sentry init failed", slog.Any("error", err))
		} else {
			handler = slogmulti.Fanout(
				handler,
				slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
			)
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	return slog.New(handler), flush
}

func zerologHandler(level slog.Level) slog.Handler {
	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	return slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler()
}

// Discard is used by tests that do not care about log output.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
