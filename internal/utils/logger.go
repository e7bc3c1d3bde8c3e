package utils

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger writing to out. Unknown levels
// fall back to info; format "json" selects the JSON formatter.
func NewLogger(out io.Writer, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger
}
