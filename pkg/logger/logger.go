package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is usable before InitLogger runs so packages and tests can log freely.
var Log = logrus.New()

func InitLogger(level string) {
	Log = logrus.New()

	// Output to stdout instead of the default stderr
	Log.Out = os.Stdout

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// Packages that log through the logrus package functions share the same setup
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(lvl)
}
