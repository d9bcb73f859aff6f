package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the application logger. Development gets human-readable text
// output; every other environment logs JSON for ingestion.
func New(level string, environment string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(ParseLevel(level))

	if environment == "development" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

// ParseLevel converts a string level to logrus.Level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
