package observability

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// InitLogger builds the process logger. Every line carries the service name,
// and the instance id when set, so API and worker output can share a sink.
func InitLogger(level, service, instance string, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stdout
	}

	ctx := zerolog.New(output).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Str("service", service)
	if instance != "" {
		ctx = ctx.Str("instance", instance)
	}
	return ctx.Caller().Logger()
}

// parseLogLevel accepts zerolog's level names plus "warning". Anything else,
// including an empty value, means info.
func parseLogLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return zerolog.WarnLevel
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
