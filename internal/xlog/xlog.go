// Package xlog wraps zap with the project's logging conventions: console
// output in development, JSON to a rotated file in release mode.
package xlog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = zap.NewExample().Sugar()

// Init builds the shared logger. An empty logPath keeps everything on
// stdout; a non-empty path adds a size-rotated file sink.
func Init(env string, logPath string) {
	debug := env != "release"

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "file",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := zap.NewAtomicLevel()
	if debug {
		level.SetLevel(zap.DebugLevel)
	} else {
		level.SetLevel(zap.InfoLevel)
	}

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if logPath != "" {
		rotated := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    128, // MB per file
			MaxAge:     30,  // days
			MaxBackups: 30,
		}
		sinks = append(sinks, zapcore.AddSync(rotated))
	}

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if debug {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level)
	logger = zap.New(core, zap.AddCaller()).Sugar()
	logger.Debugf("xlog initialized, env=%s", env)
}

// S returns the shared sugared logger.
func S() *zap.SugaredLogger {
	return logger
}
