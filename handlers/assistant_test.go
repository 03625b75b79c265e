package handlers

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xoraxteam900-star/danielai/models"
	"github.com/xoraxteam900-star/danielai/responder"
	"github.com/xoraxteam900-star/danielai/session"
	"github.com/xoraxteam900-star/danielai/speech"
)

type fakeTranscriber struct {
	text string
	conf float64
}

func (f fakeTranscriber) Transcribe(_ context.Context, _ []byte) (string, float64) {
	return f.text, f.conf
}

type fakeDetector struct {
	detections []models.Detection
	err        error
	calls      int
}

func (f *fakeDetector) Detect(_ context.Context, _ []byte) ([]models.Detection, error) {
	f.calls++
	return f.detections, f.err
}

func newTestAssistant(tr speech.Transcriber, det *fakeDetector) (*Assistant, *session.Store) {
	logger := zap.NewNop()
	state := session.NewStore(logger)
	if tr == nil {
		tr = fakeTranscriber{}
	}
	if det == nil {
		det = &fakeDetector{}
	}
	a := NewAssistant(
		state,
		speech.NewWakeWord(""),
		tr,
		det,
		responder.New(rand.NewSource(1)),
		nil, // no history sink
		nil, // no event subscribers
		logger,
	)
	return a, state
}

// fakeFrame stands in for image bytes; the fake detector never decodes it.
var fakeFrame = []byte("frame")

func TestProcessAudioRejectsEmptyPayload(t *testing.T) {
	a, _ := newTestAssistant(nil, nil)
	_, err := a.ProcessAudio(context.Background(), nil, false)
	assert.ErrorIs(t, err, ErrEmptyAudio)
}

func TestProcessAudioEngineFailureDegrades(t *testing.T) {
	// The speech engine degrades to an empty transcript; the request still
	// succeeds with an unknown intent instead of erroring.
	a, _ := newTestAssistant(fakeTranscriber{}, nil)
	result, err := a.ProcessAudio(context.Background(), []byte("audio"), false)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, models.IntentUnknown, result.Intent)
	assert.Empty(t, result.Response)
}

func TestProcessAudioNoWakeWord(t *testing.T) {
	a, _ := newTestAssistant(fakeTranscriber{text: "turn on the lights", conf: 0.9}, nil)
	result, err := a.ProcessAudio(context.Background(), []byte("audio"), false)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.WakeWordDetected)
	assert.Equal(t, models.IntentUnknown, result.Intent)
	assert.Empty(t, result.Response)
	assert.Empty(t, result.Command)
}

func TestProcessAudioHelpUtterance(t *testing.T) {
	a, _ := newTestAssistant(fakeTranscriber{text: "hey daniel what can you do", conf: 0.95}, nil)
	result, err := a.ProcessAudio(context.Background(), []byte("audio"), false)
	require.NoError(t, err)

	assert.True(t, result.WakeWordDetected)
	assert.Equal(t, "what can you do", result.Command)
	assert.Equal(t, models.IntentHelp, result.Intent)
	assert.Contains(t, responder.Pool(models.IntentHelp), result.Response)
}

func TestProcessAudioWakeOnlySkipsClassification(t *testing.T) {
	a, _ := newTestAssistant(fakeTranscriber{text: "hey daniel start camera", conf: 0.95}, nil)
	result, err := a.ProcessAudio(context.Background(), []byte("audio"), true)
	require.NoError(t, err)

	assert.True(t, result.WakeWordDetected)
	assert.Equal(t, "start camera", result.Command)
	assert.Equal(t, models.IntentUnknown, result.Intent)
	assert.Empty(t, result.Response)
}

func TestProcessAudioContextIntentNoCameraNoCache(t *testing.T) {
	a, _ := newTestAssistant(fakeTranscriber{text: "hey daniel is my room dirty", conf: 0.9}, nil)
	result, err := a.ProcessAudio(context.Background(), []byte("audio"), false)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, models.IntentCheckDirty, result.Intent)
	assert.Equal(t, needCameraReply, result.Response)
}

func TestProcessAudioContextIntentCameraOnDefers(t *testing.T) {
	a, state := newTestAssistant(fakeTranscriber{text: "hey daniel describe my room", conf: 0.9}, nil)
	state.SetCameraEnabled(true)

	result, err := a.ProcessAudio(context.Background(), []byte("audio"), false)
	require.NoError(t, err)
	assert.Equal(t, deferredReply, result.Response)
}

func TestProcessAudioContextIntentUsesCache(t *testing.T) {
	a, state := newTestAssistant(fakeTranscriber{text: "hey daniel describe my room", conf: 0.9}, nil)
	state.UpdateRoomCache("get chair.", &models.MessinessResult{Score: 20, Level: models.LevelClean})

	result, err := a.ProcessAudio(context.Background(), []byte("audio"), false)
	require.NoError(t, err)
	assert.Contains(t, result.Response, "get chair.")
}

func TestProcessAudioDoesNotMutateState(t *testing.T) {
	a, state := newTestAssistant(fakeTranscriber{text: "hey daniel start camera", conf: 0.9}, nil)
	result, err := a.ProcessAudio(context.Background(), []byte("audio"), false)
	require.NoError(t, err)

	assert.Equal(t, models.IntentStartCamera, result.Intent)
	assert.False(t, state.CameraEnabled(), "transcript path must not toggle state")
}

func TestProcessCommandStartCamera(t *testing.T) {
	a, state := newTestAssistant(nil, nil)
	result := a.ProcessCommand(context.Background(), "start camera", nil)

	assert.True(t, result.Success)
	assert.Equal(t, models.IntentStartCamera, result.Intent)
	assert.True(t, state.CameraEnabled())
	assert.Contains(t, responder.Pool(models.IntentStartCamera), result.Response)
}

func TestProcessCommandToggles(t *testing.T) {
	a, state := newTestAssistant(nil, nil)

	a.ProcessCommand(context.Background(), "mute", nil)
	assert.True(t, state.Snapshot().MicMuted)

	a.ProcessCommand(context.Background(), "unmute the mic", nil)
	// "mute" matches first by declaration order, so this stays muted;
	// only the exact unmute phrasings flip it back.
	assert.True(t, state.Snapshot().MicMuted)

	a.ProcessCommand(context.Background(), "stop camera", nil)
	assert.False(t, state.CameraEnabled())
}

func TestProcessCommandContextIntentWithFrame(t *testing.T) {
	det := &fakeDetector{detections: []models.Detection{
		{Label: "cup", Confidence: 0.8},
		{Label: "bottle", Confidence: 0.7},
		{Label: "person", Confidence: 0.9},
	}}
	a, state := newTestAssistant(nil, det)

	result := a.ProcessCommand(context.Background(), "is my room dirty", fakeFrame)

	assert.True(t, result.Success)
	assert.Equal(t, models.IntentCheckDirty, result.Intent)
	require.NotNil(t, result.Messiness)
	assert.Equal(t, 2, result.Messiness.MessyObjects)
	assert.Equal(t, 20, result.Messiness.Score)
	assert.Equal(t, models.LevelClean, result.Messiness.Level)
	assert.Len(t, result.Detections, 3)

	// Cache refreshed together.
	desc, m := state.RoomCache()
	assert.NotEmpty(t, desc)
	require.NotNil(t, m)
	assert.Equal(t, 20, m.Score)
}

func TestProcessCommandContextIntentNoFrameNoCache(t *testing.T) {
	a, _ := newTestAssistant(nil, nil)
	result := a.ProcessCommand(context.Background(), "what do you see", nil)

	assert.True(t, result.Success)
	assert.Equal(t, needCameraReply, result.Response)
	assert.Empty(t, result.Detections)
}

func TestProcessCommandContextIntentNoFrameUsesCache(t *testing.T) {
	a, state := newTestAssistant(nil, nil)
	state.UpdateRoomCache("plenty things I no go mention.", &models.MessinessResult{Score: 55, Level: models.LevelMessy})

	result := a.ProcessCommand(context.Background(), "is my room messy", nil)
	assert.Contains(t, responder.PoolForLevel(models.LevelMessy), result.Response)
}

func TestProcessCommandUnknownDefaultsToRoomQuery(t *testing.T) {
	a, _ := newTestAssistant(nil, nil)
	result := a.ProcessCommand(context.Background(), "where are my keys", nil)

	assert.Equal(t, models.IntentRoomStatus, result.Intent)
	assert.Equal(t, needCameraReply, result.Response)
}

func TestProcessCommandEmpty(t *testing.T) {
	a, _ := newTestAssistant(nil, nil)
	result := a.ProcessCommand(context.Background(), "", nil)

	assert.Equal(t, models.IntentUnknown, result.Intent)
	assert.Contains(t, responder.Pool(models.IntentUnknown), result.Response)
}

func TestAnalyzeFrameRejectsEmptyPayload(t *testing.T) {
	a, _ := newTestAssistant(nil, nil)
	_, err := a.AnalyzeFrame(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestAnalyzeFrameRefreshesCacheRegardlessOfToggle(t *testing.T) {
	det := &fakeDetector{detections: []models.Detection{{Label: "chair", Confidence: 0.9}}}
	a, state := newTestAssistant(nil, det)

	// Camera toggle off: the frame path still analyzes and caches.
	require.False(t, state.CameraEnabled())

	result, err := a.AnalyzeFrame(context.Background(), fakeFrame)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "get chair.", result.Description)

	desc, m := state.RoomCache()
	assert.Equal(t, "get chair.", desc)
	assert.NotNil(t, m)
}

func TestAnalyzeFrameDetectorFailureTreatedAsEmpty(t *testing.T) {
	det := &fakeDetector{err: errors.New("model unavailable")}
	a, state := newTestAssistant(nil, det)

	result, err := a.AnalyzeFrame(context.Background(), fakeFrame)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Detections)
	require.NotNil(t, result.Messiness)
	assert.Equal(t, 0, result.Messiness.Score)
	assert.Equal(t, models.LevelClean, result.Messiness.Level)
	assert.Equal(t, emptyFrameDescription, result.Description)

	// The degraded result still refreshes both cache slots together.
	desc, m := state.RoomCache()
	assert.Equal(t, emptyFrameDescription, desc)
	assert.NotNil(t, m)
}

func TestExplicitToggles(t *testing.T) {
	a, state := newTestAssistant(nil, nil)

	result := a.SetCamera(true)
	assert.True(t, result.Success)
	require.NotNil(t, result.CameraEnabled)
	assert.True(t, *result.CameraEnabled)
	assert.True(t, state.CameraEnabled())
	assert.Contains(t, responder.Pool(models.IntentStartCamera), result.Response)

	result = a.SetMic(true)
	require.NotNil(t, result.MicMuted)
	assert.True(t, *result.MicMuted)
	assert.Contains(t, responder.Pool(models.IntentMute), result.Response)
}

func TestStatusIdempotent(t *testing.T) {
	a, _ := newTestAssistant(nil, nil)
	a.SetCamera(true)

	first := a.Status()
	second := a.Status()
	assert.Equal(t, first, second)
}

func TestCacheInvariantAcrossOperationSequence(t *testing.T) {
	det := &fakeDetector{detections: []models.Detection{{Label: "cup", Confidence: 0.8}}}
	a, _ := newTestAssistant(nil, det)
	ctx := context.Background()

	a.ProcessCommand(ctx, "start camera", nil)
	a.AnalyzeFrame(ctx, fakeFrame)
	a.ProcessCommand(ctx, "mute", nil)
	a.SetCamera(false)
	a.ProcessCommand(ctx, "is my room dirty", fakeFrame)

	st := a.Status()
	assert.Equal(t, st.LastRoomDescription == "", st.LastMessiness == nil)
}
