package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferLogger_CapturesLevels(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("fetching %s", "/api/stats")
	l.Info("logged in as %s", "admin")
	l.Warn("stats poll failed")
	l.Error("request failed: %v", "timeout")

	assert.Len(t, l.Messages, 4)
	assert.True(t, l.HasLevel("debug"))
	assert.True(t, l.HasLevel("info"))
	assert.True(t, l.HasLevel("warn"))
	assert.True(t, l.HasLevel("error"))
	assert.Equal(t, "fetching /api/stats", l.Messages[0].Message)
}

func TestBufferLogger_Clear(t *testing.T) {
	l := NewBufferLogger()
	l.Info("something")
	l.Clear()

	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("info"))
}

func TestNoop_DiscardsEverything(t *testing.T) {
	l := Noop()

	// Must not panic or produce output
	l.Debug("debug %d", 1)
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("hello")

	assert.True(t, buf.HasLevel("info"))
}
