// Package logger holds the process-wide logrus logger used by the arena
// packages. Output goes to stderr at warn level unless BLOCKARENA_LOG_LEVEL
// names another logrus level (e.g. "debug" to trace splits and merges).
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// EnvLevel is the environment variable consulted for the default level.
const EnvLevel = "BLOCKARENA_LOG_LEVEL"

// L is the shared logger. Packages take a logrus.FieldLogger so tests and
// callers can substitute their own.
var L = New(os.Stderr, levelFromEnv())

// New builds a logger writing to w with the prefixed text formatter.
func New(w io.Writer, level logrus.Level) *logrus.Logger {
	return &logrus.Logger{
		Out:   w,
		Level: level,
		Hooks: make(logrus.LevelHooks),
		Formatter: &prefixed.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
			ForceFormatting: true,
		},
	}
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return New(io.Discard, logrus.PanicLevel)
}

func levelFromEnv() logrus.Level {
	v := strings.TrimSpace(os.Getenv(EnvLevel))
	if v == "" {
		return logrus.WarnLevel
	}
	lvl, err := logrus.ParseLevel(v)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}
