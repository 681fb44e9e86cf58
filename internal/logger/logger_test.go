package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultIsNop(t *testing.T) {
	require.NotNil(t, L())
	L().Infow("dropped", "k", "v")
}

func TestSetCapturesEntries(t *testing.T) {
	defer Set(nil)

	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core).Sugar())

	L().Debugw("stage done", "recipe", "sqlite3pp", "stage", "configure")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "stage done", entries[0].Message)
	assert.Equal(t, "configure", entries[0].ContextMap()["stage"])
}

func TestInit(t *testing.T) {
	defer Set(nil)

	require.NoError(t, Init(true))
	assert.True(t, L().Desugar().Core().Enabled(zap.DebugLevel))

	require.NoError(t, Init(false))
	assert.False(t, L().Desugar().Core().Enabled(zap.InfoLevel))
	assert.True(t, L().Desugar().Core().Enabled(zap.WarnLevel))
}
