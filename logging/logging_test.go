package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromFallsBackToRoot(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetRoot(zap.New(core))
	defer SetRoot(nil)

	From(context.Background()).Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)
}

func TestSubFromNamesLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := Context(context.Background(), zap.New(core))

	log, sub := SubFrom(ctx, "driver")
	log.Info("tick")
	From(sub).Info("again")

	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, "driver", entry.LoggerName)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	logger, err := New(Options{Dev: true, Level: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
