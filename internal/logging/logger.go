package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Interface describes the minimal logging interface the service relies on.
type Interface interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

var (
	globalLogger Interface
	once         sync.Once
)

// Logger returns a lazily initialized zerolog-backed logger implementing Interface.
func Logger() Interface {
	once.Do(func() {
		base := zerolog.New(os.Stdout).With().Timestamp().Logger()
		globalLogger = &zerologAdapter{log: base}
	})
	return globalLogger
}

// SetLevel applies a global level by name ("debug", "info", "warn", "error").
// Unknown names fall back to info.
func SetLevel(name string) {
	level := zerolog.InfoLevel
	switch strings.ToLower(name) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)
}

type zerologAdapter struct {
	log zerolog.Logger
}

func (l *zerologAdapter) Infof(format string, args ...interface{}) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologAdapter) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *zerologAdapter) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zerologAdapter) Warnf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}
