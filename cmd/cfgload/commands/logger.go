package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cyrhla/loader"
)

// zerologAdapter implements loader.Logger on top of zerolog.
type zerologAdapter struct {
	logger zerolog.Logger
}

// NewLogger returns a console logger writing to w at level.
func NewLogger(w io.Writer, level zerolog.Level) loader.Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	return zerologAdapter{logger: zerolog.New(out).Level(level).With().Timestamp().Logger()}
}

func (z zerologAdapter) Debug(msg string, attrs ...any) { emit(z.logger.Debug(), msg, attrs) }
func (z zerologAdapter) Info(msg string, attrs ...any)  { emit(z.logger.Info(), msg, attrs) }
func (z zerologAdapter) Warn(msg string, attrs ...any)  { emit(z.logger.Warn(), msg, attrs) }
func (z zerologAdapter) Error(msg string, attrs ...any) { emit(z.logger.Error(), msg, attrs) }

func (z zerologAdapter) With(attrs ...any) loader.Logger {
	ctx := z.logger.With()
	for i := 0; i+1 < len(attrs); i += 2 {
		ctx = ctx.Interface(fmt.Sprint(attrs[i]), attrs[i+1])
	}
	return zerologAdapter{logger: ctx.Logger()}
}

func emit(e *zerolog.Event, msg string, attrs []any) {
	for i := 0; i+1 < len(attrs); i += 2 {
		e = e.Interface(fmt.Sprint(attrs[i]), attrs[i+1])
	}
	e.Msg(msg)
}

// ParseLevel parses a log level name (case-insensitive).
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("invalid log level '%s'. Valid levels: debug, info, warn, error", level)
}

type loggerKey struct{}

func setLogger(cmd *cobra.Command, l loader.Logger) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, loggerKey{}, l))
}

// commandLogger returns the logger installed by the root command.
func commandLogger(cmd *cobra.Command) loader.Logger {
	if ctx := cmd.Context(); ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(loader.Logger); ok {
			return l
		}
	}
	return loader.NopLogger{}
}
