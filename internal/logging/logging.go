package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process-wide logger. Level and format come from the
// environment so deployments can switch to JSON without a code change.
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if os.Getenv("LOG_FORMAT") == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
