package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	debugMode bool
	log       *logrus.Logger
)

func init() {
	log = logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	log.SetLevel(logrus.InfoLevel)
}

func SetDebugMode(enabled bool) {
	debugMode = enabled
	if debugMode {
		log.SetLevel(logrus.DebugLevel)
		Debug("Debug mode enabled")
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

func IsDebugMode() bool {
	return debugMode
}

// SetOutput redirects all log output. The MCP server uses this to keep
// stdout clean for the protocol stream.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Logger exposes the underlying logrus instance for libraries that accept one.
func Logger() *logrus.Logger {
	return log
}

func Debug(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

func Info(format string, args ...interface{}) {
	log.Infof(format, args...)
}

func Error(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

func Warn(format string, args ...interface{}) {
	if debugMode {
		log.Warnf(format, args...)
	}
}

// WithField returns an entry carrying a structured field, for call sites
// that log several lines about the same subject.
func WithField(key string, value interface{}) *logrus.Entry {
	return log.WithField(key, value)
}

// Request logging function for HTTP requests
func LogRequest(method, path, remoteAddr string) {
	if debugMode {
		Debug("HTTP %s %s from %s", method, path, remoteAddr)
	}
}

// Response logging function for HTTP responses
func LogResponse(method, path string, statusCode int, duration string) {
	if debugMode {
		log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": statusCode,
		}).Debug(fmt.Sprintf("HTTP %s %s -> %d (%s)", method, path, statusCode, duration))
	}
}
