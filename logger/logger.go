package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
}

// Configure sets the log level and an optional rotating file output.
// Level is one of debug/info/warn/error; an empty file keeps stdout only.
func Configure(level, file string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	if file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}
}

// WithField returns an entry carrying one structured field.
func WithField(key string, value interface{}) *logrus.Entry {
	return log.WithField(key, value)
}

// WithFields returns an entry carrying several structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

// Println logs at info level.
func Println(v ...interface{}) {
	log.Infoln(v...)
}

// Printf logs a formatted message at info level.
func Printf(format string, v ...interface{}) {
	log.Infof(format, v...)
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, v ...interface{}) {
	log.Debugf(format, v...)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, v ...interface{}) {
	log.Warnf(format, v...)
}

// Errorln logs at error level.
func Errorln(v ...interface{}) {
	log.Errorln(v...)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, v ...interface{}) {
	log.Errorf(format, v...)
}

// Fatalf logs a formatted message and exits.
func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}
