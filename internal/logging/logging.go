// Package logging builds the process-wide structured logger.
package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Init returns a configured logrus logger. Unrecognized levels fall back to
// info; format is "json" or "text".
func Init(level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}
	return log
}

// WithComponent tags entries with the subsystem emitting them.
func WithComponent(log *logrus.Logger, component string) *logrus.Entry {
	return log.WithField("component", component)
}
