// Package logs provides the leveled logger used across the indexing core.
package logs

import (
	"log"
	"os"
)

// Log levels, increasing in severity.
const (
	LevelTrace = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
)

// Logger is a small leveled wrapper around the standard library logger.
// Components hold their own *Logger so shard-level diagnostics can be
// attributed to the map or index that produced them.
type Logger struct {
	level  int
	prefix string
	out    *log.Logger
	errOut *log.Logger
}

// New creates a Logger that tags every line with prefix.
func New(prefix string) *Logger {
	if prefix != "" {
		prefix = "[" + prefix + "] "
	}
	flags := log.Ldate | log.Ltime | log.Lmicroseconds
	return &Logger{
		level:  LevelInfo,
		prefix: prefix,
		out:    log.New(os.Stdout, "", flags),
		errOut: log.New(os.Stderr, "", flags),
	}
}

// SetLevel changes which levels are emitted; messages below level are dropped.
func (l *Logger) SetLevel(level int) {
	l.level = level
}

func (l *Logger) logf(level int, tag string, w *log.Logger, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	w.Printf(tag+" "+l.prefix+format, v...)
}

func (l *Logger) Tracef(format string, v ...interface{}) { l.logf(LevelTrace, "[TRACE]", l.out, format, v...) }
func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, "[DEBUG]", l.out, format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.logf(LevelInfo, "[INFO]", l.out, format, v...) }
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logf(LevelWarning, "[WARN]", l.out, format, v...)
}
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf(LevelError, "[ERROR]", l.errOut, format, v...)
}

var defaultLogger = New("")

// Trace, Debug, Info, Warn and Error log through the package-level default
// Logger; convenient for call sites that don't carry their own instance.
func Trace(format string, v ...interface{}) { defaultLogger.Tracef(format, v...) }
func Debug(format string, v ...interface{}) { defaultLogger.Debugf(format, v...) }
func Info(format string, v ...interface{})  { defaultLogger.Infof(format, v...) }
func Warn(format string, v ...interface{})  { defaultLogger.Warnf(format, v...) }
func Error(format string, v ...interface{}) { defaultLogger.Errorf(format, v...) }
