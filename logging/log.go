// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/natefinch/lumberjack.v2"
)

// A Level is a logging priority. Higher levels are more important.
type Level int8

// Logging levels (matching zap core internals).
const (
	// DebugLevel logs are typically voluminous, and are usually disabled in
	// production.
	DebugLevel Level = -1
	// InfoLevel is the default logging priority.
	InfoLevel Level = 0
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel Level = 1
	// ErrorLevel logs are high-priority. If an application is running smoothly,
	// it shouldn't generate any error-level logs.
	ErrorLevel Level = 2
	// PanicLevel logs a message, then panics.
	PanicLevel Level = 4
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel Level = 5
)

// ParseLevel parse a log level from a string.
func ParseLevel(l string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warning", "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "panic":
		return PanicLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return Level(100), fmt.Errorf("log level %q is not supported", l)
	}
}

// String returns the lowercase name of the level.
func (l Level) String() string {
	return zapcore.Level(l).String()
}

func (l *Level) ZapLevel() zapcore.Level {
	return zapcore.Level(*l)
}

// UnmarshalText allows the level to be written as a string in configuration
// files.
func (l *Level) UnmarshalText(text []byte) error {
	lvl, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

func (l *Level) UnmarshalFlag(s string) error {
	return l.UnmarshalText([]byte(s))
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

type Logger struct {
	*zap.Logger
	config *zap.Config
	core   zapcore.Core
	name   string
}

// levelCore gates an unfiltered core with the level of one logger, so that
// every named logger can be tuned independently of its parent.
type levelCore struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l) && c.Core.Enabled(l)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), level: c.level}
}

func (c *levelCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func build(core zapcore.Core, cfg *zap.Config, name string) *Logger {
	l := zap.New(&levelCore{Core: core, level: cfg.Level}, zap.AddCaller())
	if name != "" {
		l = l.Named(name)
	}
	return &Logger{
		Logger: l,
		config: cfg,
		core:   core,
		name:   name,
	}
}

func (log *Logger) Clone() *Logger {
	return build(log.core, cloneConfig(log.config), log.name)
}

func (log *Logger) GetLevel() Level {
	return (Level)(log.config.Level.Level())
}

func (log *Logger) GetLevelString() string {
	return log.config.Level.String()
}

func (log *Logger) GetName() string {
	return log.name
}

// Named adds a new path segment to the logger's name. Each named logger gets
// its own level so that packages can be tuned independently.
func (log *Logger) Named(name string) *Logger {
	newName := name
	if log.name != "" {
		newName = fmt.Sprintf("%s.%s", log.name, name)
	}
	return build(log.core, cloneConfig(log.config), newName)
}

// New wraps an unfiltered core, the level of the returned logger is held by
// cfg.Level.
func New(core zapcore.Core, cfg *zap.Config) *Logger {
	return build(core, cfg, "")
}

func (log *Logger) SetLevel(level Level) {
	lvl := (zapcore.Level)(level)
	if log.config.Level.Level() == lvl {
		return
	}
	log.config.Level.SetLevel(lvl)
}

func (log *Logger) With(fields ...zap.Field) *Logger {
	return build(log.core.With(fields), cloneConfig(log.config), log.name)
}

// AtExit flushes the logs before exiting the process. Useful when an
// app shuts down so we store all logging possible. This is meant to be used
// with defer when initializing your logger.
func (log *Logger) AtExit() {
	if log.Logger != nil {
		_ = log.Logger.Sync()
	}
}

func cloneConfig(cfg *zap.Config) *zap.Config {
	c := zap.Config{
		Level:             zap.NewAtomicLevelAt(cfg.Level.Level()),
		Development:       cfg.Development,
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Sampling:          nil,
		Encoding:          cfg.Encoding,
		EncoderConfig:     cfg.EncoderConfig,
		OutputPaths:       cfg.OutputPaths,
		ErrorOutputPaths:  cfg.ErrorOutputPaths,
		InitialFields:     make(map[string]interface{}),
	}
	for k, v := range cfg.InitialFields {
		c.InitialFields[k] = v
	}
	if cfg.Sampling != nil {
		c.Sampling = &zap.SamplingConfig{
			Initial:    cfg.Sampling.Initial,
			Thereafter: cfg.Sampling.Thereafter,
		}
	}
	return &c
}

// NewLoggerFromConfig builds the process logger. The "dev" environment logs
// human readable lines to the console, anything else logs JSON. The lines
// are also written to cfg.File, rotated, when set.
func NewLoggerFromConfig(cfg Config) *Logger {
	var (
		encoderConfig zapcore.EncoderConfig
		encoder       zapcore.Encoder
		encoding      string
	)

	switch cfg.Environment {
	case "dev":
		encoderConfig = zapcore.EncoderConfig{
			CallerKey:      "C",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "L",
			LineEnding:     "\n",
			MessageKey:     "M",
			NameKey:        "N",
			TimeKey:        "T",
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		encoding = "console"
	default:
		encoderConfig = zapcore.EncoderConfig{
			CallerKey:      "caller",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeName:     zapcore.FullNameEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "level",
			LineEnding:     "\n",
			MessageKey:     "message",
			NameKey:        "logger",
			StacktraceKey:  "stacktrace",
			TimeKey:        "@timestamp",
		}
		encoder = zapcore.NewJSONEncoder(encoderConfig)
		encoding = "json"
	}

	level := zap.NewAtomicLevelAt(zapcore.Level(cfg.Level))
	config := zap.Config{
		Level:            level,
		Development:      cfg.Environment == "dev",
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	sink := zapcore.Lock(os.Stdout)
	if len(cfg.File) > 0 {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.LogRotation.MaxSize,
			MaxAge:     cfg.LogRotation.MaxAge,
			MaxBackups: cfg.LogRotation.MaxBackups,
			Compress:   cfg.LogRotation.Compress,
		}))
		config.OutputPaths = append(config.OutputPaths, cfg.File)
	}

	core := zapcore.NewCore(encoder, sink, zapcore.DebugLevel)
	return New(core, &config)
}

// NewTestLogger returns a logger discarding everything below the error level,
// to be used in unit tests.
func NewTestLogger() *Logger {
	log, _ := NewObservedLogger(ErrorLevel)
	return log
}

// NewObservedLogger returns a logger recording its entries in memory so tests
// can assert on what was logged.
func NewObservedLogger(lvl Level) (*Logger, *observer.ObservedLogs) {
	level := zap.NewAtomicLevelAt(zapcore.Level(lvl))
	core, logs := observer.New(zapcore.DebugLevel)
	config := zap.Config{
		Level:    level,
		Encoding: "console",
	}
	return New(core, &config), logs
}
