// Package logging configures the logrus logger shared by the builder, the
// renderer and the command line.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to out at the given level.
// An unparsable level falls back to info.
func New(level string, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Discard returns a logger that drops everything. Used by tests and library
// callers that don't care about build progress.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
