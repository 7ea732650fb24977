// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	nblog "github.com/lesismal/nbio/logging"
)

var (
	// DefaultLogger is used by the package level functions and, after
	// Install, by the nbio engine.
	DefaultLogger Logger = New(os.Stderr, LevelInfo)
)

const (
	// LevelAll enables all logs.
	LevelAll = iota
	// LevelDebug logs are usually disabled in production.
	LevelDebug
	// LevelInfo is the default logging priority.
	LevelInfo
	// LevelWarn .
	LevelWarn
	// LevelError .
	LevelError
	// LevelNone disables all logs.
	LevelNone
)

var levelNames = map[string]int{
	"all":   LevelAll,
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
	"none":  LevelNone,
}

// Logger defines log interface. It has the same method set as the nbio
// engine's logger so one value serves both.
type Logger interface {
	SetLevel(lvl int)
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ParseLevel converts a level name such as "debug" to its value.
func ParseLevel(name string) (int, error) {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return LevelInfo, fmt.Errorf("invalid log level: %q", name)
	}
	return lvl, nil
}

// SetLogger sets default logger.
func SetLogger(l Logger) {
	DefaultLogger = l
}

// SetLevel sets default logger's priority.
func SetLevel(lvl int) {
	switch lvl {
	case LevelAll, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelNone:
		DefaultLogger.SetLevel(lvl)
	default:
		log.Printf("invalid log level: %v", lvl)
	}
}

// Install routes the nbio engine's logs through DefaultLogger.
func Install() {
	nblog.SetLogger(DefaultLogger)
}

// logger writes "[LVL] message" lines to an io.Writer.
type logger struct {
	level int32
	out   *log.Logger
}

// New returns a Logger writing to w.
func New(w io.Writer, lvl int) Logger {
	return &logger{level: int32(lvl), out: log.New(w, "", log.LstdFlags)}
}

// SetLevel sets logs priority.
func (l *logger) SetLevel(lvl int) {
	switch lvl {
	case LevelAll, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelNone:
		atomic.StoreInt32(&l.level, int32(lvl))
	default:
		log.Printf("invalid log level: %v", lvl)
	}
}

func (l *logger) output(lvl int, prefix, format string, v ...interface{}) {
	if int32(lvl) >= atomic.LoadInt32(&l.level) {
		l.out.Output(3, fmt.Sprintf(prefix+format, v...))
	}
}

// Debug logs a message at LevelDebug.
func (l *logger) Debug(format string, v ...interface{}) {
	l.output(LevelDebug, "[DBG] ", format, v...)
}

// Info logs a message at LevelInfo.
func (l *logger) Info(format string, v ...interface{}) {
	l.output(LevelInfo, "[INF] ", format, v...)
}

// Warn logs a message at LevelWarn.
func (l *logger) Warn(format string, v ...interface{}) {
	l.output(LevelWarn, "[WRN] ", format, v...)
}

// Error logs a message at LevelError.
func (l *logger) Error(format string, v ...interface{}) {
	l.output(LevelError, "[ERR] ", format, v...)
}

// Debug uses DefaultLogger to log a message at LevelDebug.
func Debug(format string, v ...interface{}) {
	if DefaultLogger != nil {
		DefaultLogger.Debug(format, v...)
	}
}

// Info uses DefaultLogger to log a message at LevelInfo.
func Info(format string, v ...interface{}) {
	if DefaultLogger != nil {
		DefaultLogger.Info(format, v...)
	}
}

// Warn uses DefaultLogger to log a message at LevelWarn.
func Warn(format string, v ...interface{}) {
	if DefaultLogger != nil {
		DefaultLogger.Warn(format, v...)
	}
}

// Error uses DefaultLogger to log a message at LevelError.
func Error(format string, v ...interface{}) {
	if DefaultLogger != nil {
		DefaultLogger.Error(format, v...)
	}
}
