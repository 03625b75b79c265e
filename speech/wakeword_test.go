package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWakeWordDetect(t *testing.T) {
	w := NewWakeWord("")

	assert.True(t, w.Detect("hey daniel what can you do"))
	assert.True(t, w.Detect("HEY DANIEL turn on camera"))
	assert.True(t, w.Detect("so I said hey daniel please"))
	assert.False(t, w.Detect("hello daniel"))
	assert.False(t, w.Detect(""))
	assert.False(t, w.Detect("   "))
}

func TestWakeWordDetectSubstringHeuristic(t *testing.T) {
	// Containment is not token-boundary aware; an embedded phrase still
	// matches. Inherited behavior, asserted so nobody "fixes" it silently.
	w := NewWakeWord("")
	assert.True(t, w.Detect("okhey danielson here"))
}

func TestWakeWordStrip(t *testing.T) {
	w := NewWakeWord("")

	assert.Equal(t, "what can you do", w.Strip("hey daniel what can you do"))
	assert.Equal(t, "start camera", w.Strip("  Hey Daniel start camera  "))
	assert.Equal(t, "", w.Strip(""))

	// Without the phrase the normalized transcript comes back whole.
	assert.Equal(t, "start camera", w.Strip("Start Camera"))
}

func TestWakeWordStripFirstOccurrenceOnly(t *testing.T) {
	w := NewWakeWord("")
	assert.Equal(t, "hey daniel help", w.Strip("hey daniel hey daniel help"))
}

func TestWakeWordCustomPhrase(t *testing.T) {
	w := NewWakeWord("Okay Robot")
	assert.True(t, w.Detect("okay robot describe my room"))
	assert.Equal(t, "describe my room", w.Strip("okay robot describe my room"))
}
