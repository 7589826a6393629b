// Package logger holds the process-wide logrus logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Fields = logrus.Fields

// Init configures the logger. Progress goes to stderr so the report on stdout
// can be piped on its own.
func Init(debug bool, format string) {
	switch format {
	case "json":
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}

	Log.SetOutput(os.Stderr)

	if debug || os.Getenv("DEBUG") == "true" {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}
