// Package logging is a thin key/value facade over zap
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a key/value structured logger backed by zap
type Logger struct {
	s *zap.SugaredLogger
}

type options struct {
	console bool
	fields  []any
	core    zapcore.Core
}

// Option configures New
type Option func(*options)

// WithConsole switches from JSON to the human readable development encoder
func WithConsole() Option {
	return func(o *options) {
		o.console = true
	}
}

// WithFields attaches key/value pairs to every entry
func WithFields(keyvals ...any) Option {
	return func(o *options) {
		o.fields = append(o.fields, keyvals...)
	}
}

// WithCore writes to core instead of stderr. The level argument still filters entries
func WithCore(core zapcore.Core) Option {
	return func(o *options) {
		o.core = core
	}
}

// New builds a logger at the given level, JSON encoded unless WithConsole is set
func New(level string, opts ...Option) *Logger {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	lvl := zap.NewAtomicLevelAt(ParseLevel(level))

	var z *zap.Logger
	if o.core != nil {
		z = zap.New(zapcore.NewTee(levelFilter{Core: o.core, level: lvl}))
	} else {
		cfg := zap.NewProductionConfig()
		if o.console {
			cfg = zap.NewDevelopmentConfig()
		}
		cfg.Level = lvl

		var err error
		z, err = cfg.Build()
		if err != nil {
			z, _ = zap.NewProduction()
		}
	}

	return &Logger{s: z.Sugar().With(o.fields...)}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{s: l.s.With(keyvals...)}
}

// Named adds a component name to every entry
func (l *Logger) Named(name string) *Logger {
	return &Logger{s: l.s.Named(name)}
}

func (l *Logger) Debug(msg string, keyvals ...any) {
	l.s.Debugw(msg, keyvals...)
}

func (l *Logger) Info(msg string, keyvals ...any) {
	l.s.Infow(msg, keyvals...)
}

func (l *Logger) Warn(msg string, keyvals ...any) {
	l.s.Warnw(msg, keyvals...)
}

func (l *Logger) Error(msg string, keyvals ...any) {
	l.s.Errorw(msg, keyvals...)
}

func (l *Logger) Sync() error {
	return l.s.Sync()
}

// ParseLevel maps a LOG_LEVEL value to a zap level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		if strings.EqualFold(level, "warning") {
			return zapcore.WarnLevel
		}
		return zapcore.InfoLevel
	}
	return lvl
}

type levelFilter struct {
	zapcore.Core
	level zapcore.LevelEnabler
}

func (f levelFilter) Enabled(l zapcore.Level) bool {
	return f.level.Enabled(l) && f.Core.Enabled(l)
}

func (f levelFilter) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !f.Enabled(e.Level) {
		return ce
	}
	return f.Core.Check(e, ce)
}

func (f levelFilter) With(fields []zapcore.Field) zapcore.Core {
	return levelFilter{Core: f.Core.With(fields), level: f.level}
}
