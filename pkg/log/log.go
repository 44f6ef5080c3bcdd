package log

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConfigureGlobalLog global uber zap logger, there are two modes possible.
// the very first one is debug or not, used by CLI a debug mode is fantastic way
// to print more information and a logFile where the logs would be saved
func ConfigureGlobalLog(debug bool, logFile string) error {
	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		return fmt.Errorf("Couldn't create the log dir for: %s. \nError is: %s", logFile, err.Error())
	}

	// If the file doesn't exist, create it, or append to the file
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("Couldn't open the log file: %s. \nError is: %s", logFile, err.Error())
	}

	logger := zap.New(newCore(debug, zapcore.Lock(os.Stderr), zapcore.Lock(f)), zap.AddCaller())
	zap.ReplaceGlobals(logger)
	return nil
}

func newCore(debug bool, console, file zapcore.WriteSyncer) zapcore.Core {
	lvl := zap.InfoLevel
	if debug {
		lvl = zap.DebugLevel
	}

	// Console gets the short human format, the file keeps everything as JSON.
	return zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(setCustomConfig()), console, lvl),
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), file, zap.DebugLevel),
	)
}

func setCustomConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		LevelKey:    "level",
		TimeKey:     "ts",
		MessageKey:  "msg",
		EncodeLevel: zapcore.CapitalLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
	}
}

// Sync flushes the global logger. Errors from syncing stderr are ignored.
func Sync() {
	_ = zap.L().Sync()
}
