package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExitOnErrorKeepsMessage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core, zap.WithFatalHook(zapcore.WriteThenPanic)).Sugar()

	assert.NotPanics(t, func() { exitOnError(logger, nil) })
	assert.Zero(t, logs.Len())

	assert.Panics(t, func() { exitOnError(logger, errors.New("disk 100% full: %s")) })
	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.FatalLevel, entries[0].Level)
		assert.Equal(t, "disk 100% full: %s", entries[0].Message)
	}
}
