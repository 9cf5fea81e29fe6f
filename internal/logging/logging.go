package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the logger handed to every component.
type Logger = *logrus.Logger

// Fields carries structured context on a log line.
type Fields = logrus.Fields

// New builds a logger writing human-readable lines to w. Unknown level
// strings fall back to info.
func New(w io.Writer, level string) Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
