// Package handlers contains the dialogue orchestrator and the HTTP surface
// in front of it. Each request is one transaction against the shared
// session store.
package handlers

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xoraxteam900-star/danielai/models"
	"github.com/xoraxteam900-star/danielai/responder"
	"github.com/xoraxteam900-star/danielai/session"
	"github.com/xoraxteam900-star/danielai/speech"
	"github.com/xoraxteam900-star/danielai/utils"
	"github.com/xoraxteam900-star/danielai/vision"
)

// Fixed replies for states the template pools don't cover.
const (
	deferredReply   = "Boss, give me small time to check your room..."
	needCameraReply = "Boss, you need to turn on camera first. Say 'start camera'."
	frameErrorReply = "Boss, I get problem to analyse your room. Make you try again."

	// emptyFrameDescription is cached when a frame yields no detections.
	emptyFrameDescription = "I no see anything clear."
)

// Malformed-input rejections, surfaced to the caller explicitly instead of
// degrading into a silent empty result.
var (
	ErrEmptyAudio = errors.New("empty audio data")
	ErrEmptyImage = errors.New("empty image data")
)

// Assistant coordinates wake-word extraction, intent classification, room
// analysis and response synthesis over the shared session store.
type Assistant struct {
	state       *session.Store
	wake        speech.WakeWord
	transcriber speech.Transcriber
	detector    vision.Detector
	responder   *responder.Responder
	history     *utils.AnalysisHistory
	events      *Broadcaster
	logger      *zap.Logger
}

func NewAssistant(
	state *session.Store,
	wake speech.WakeWord,
	transcriber speech.Transcriber,
	detector vision.Detector,
	resp *responder.Responder,
	history *utils.AnalysisHistory,
	events *Broadcaster,
	logger *zap.Logger,
) *Assistant {
	if logger == nil {
		logger = zap.L()
	}
	return &Assistant{
		state:       state,
		wake:        wake,
		transcriber: transcriber,
		detector:    detector,
		responder:   resp,
		history:     history,
		events:      events,
		logger:      logger,
	}
}

// ProcessAudio runs the transcript-driven path: transcribe, wake-word gate,
// classify, answer. Session toggles are not mutated here; only the command
// path changes state. With wakeOnly set, classification is skipped and just
// the wake-word check is reported.
func (a *Assistant) ProcessAudio(ctx context.Context, audio []byte, wakeOnly bool) (models.SpeechResult, error) {
	if len(audio) == 0 {
		return models.SpeechResult{}, ErrEmptyAudio
	}

	text, confidence := a.transcriber.Transcribe(ctx, audio)
	if text == "" {
		return models.SpeechResult{Success: true, Intent: models.IntentUnknown}, nil
	}

	result := models.SpeechResult{
		Success:    true,
		Text:       text,
		Confidence: confidence,
		Intent:     models.IntentUnknown,
	}

	if !a.wake.Detect(text) {
		return result, nil
	}
	result.WakeWordDetected = true
	result.Command = a.wake.Strip(text)

	if wakeOnly {
		return result, nil
	}

	intent, _ := speech.Classify(result.Command)
	result.Intent = intent
	a.logger.Info("Utterance resolved",
		zap.String("command", result.Command),
		zap.String("intent", string(intent)))

	if intent.NeedsRoomContext() {
		description, messiness := a.state.RoomCache()
		switch {
		case description != "":
			result.Response = a.responder.Respond(intent, description, messiness)
		case a.state.CameraEnabled():
			result.Response = deferredReply
		default:
			result.Response = needCameraReply
		}
	} else {
		result.Response = a.responder.Respond(intent, "", nil)
	}

	return result, nil
}

// ProcessCommand runs the command-driven path: the caller already isolated
// the command, so no wake-word stripping. Toggle intents mutate the store;
// context intents consume the supplied frame or fall back to the cache.
func (a *Assistant) ProcessCommand(ctx context.Context, command string, frame []byte) models.CommandResult {
	intent, _ := speech.Classify(command)
	a.logger.Info("Processing command",
		zap.String("command", command),
		zap.String("intent", string(intent)))

	result := models.CommandResult{Success: true, Intent: intent}

	switch intent {
	case models.IntentStopCamera:
		a.state.SetCameraEnabled(false)
		result.Response = a.responder.Respond(intent, "", nil)

	case models.IntentStartCamera:
		a.state.SetCameraEnabled(true)
		result.Response = a.responder.Respond(intent, "", nil)

	case models.IntentMute:
		a.state.SetMicMuted(true)
		result.Response = a.responder.Respond(intent, "", nil)

	case models.IntentUnmute:
		a.state.SetMicMuted(false)
		result.Response = a.responder.Respond(intent, "", nil)

	case models.IntentRoomStatus, models.IntentCheckDirty:
		if len(frame) > 0 {
			analysis := a.analyzeAndCache(ctx, frame)
			result.Response = a.responder.Respond(intent, analysis.Description, analysis.Messiness)
			result.Description = analysis.Description
			result.Messiness = analysis.Messiness
			result.Detections = analysis.Detections
		} else if description, messiness := a.state.RoomCache(); description != "" {
			result.Response = a.responder.Respond(intent, description, messiness)
		} else {
			result.Response = needCameraReply
		}

	default:
		result.Response = a.responder.Respond(intent, "", nil)
	}

	a.events.Publish("command_processed", result)
	return result
}

// AnalyzeFrame runs the frame-only path: always detect and refresh the
// cache, independent of the camera toggle.
func (a *Assistant) AnalyzeFrame(ctx context.Context, frame []byte) (models.FrameResult, error) {
	if len(frame) == 0 {
		return models.FrameResult{}, ErrEmptyImage
	}

	analysis := a.analyzeAndCache(ctx, frame)
	return models.FrameResult{
		Success:        true,
		Detections:     analysis.Detections,
		Messiness:      analysis.Messiness,
		Description:    analysis.Description,
		AnnotatedImage: analysis.AnnotatedImage,
	}, nil
}

// analyzeAndCache is the single detect-analyze-cache pipeline behind both
// frame paths. A detector failure is treated as an empty detection list so
// scoring and description never run on partial data; the cache is refreshed
// either way.
func (a *Assistant) analyzeAndCache(ctx context.Context, frame []byte) *models.RoomAnalysis {
	detections, err := a.detector.Detect(ctx, frame)
	if err != nil {
		a.logger.Error("Detection failed, treating frame as empty", zap.Error(err))
		detections = nil
	}

	analysis := &models.RoomAnalysis{Detections: detections}

	if len(detections) == 0 {
		analysis.Detections = []models.Detection{}
		analysis.Messiness = &models.MessinessResult{Level: models.LevelClean}
		analysis.Description = emptyFrameDescription
	} else {
		analysis.Messiness = vision.AnalyzeMessiness(detections, frame)
		analysis.Description = vision.DescribeRoom(detections)
		analysis.AnnotatedImage = vision.AnnotateFrame(frame, detections)
	}

	a.state.UpdateRoomCache(analysis.Description, analysis.Messiness)
	a.history.Record(ctx, analysis.Description, analysis.Messiness, len(analysis.Detections))
	a.events.Publish("analysis_refreshed", map[string]interface{}{
		"description":   analysis.Description,
		"messiness":     analysis.Messiness,
		"total_objects": len(analysis.Detections),
	})

	return analysis
}

// SetCamera is the explicit camera toggle operation.
func (a *Assistant) SetCamera(enabled bool) models.ToggleResult {
	a.state.SetCameraEnabled(enabled)

	intent := models.IntentStopCamera
	if enabled {
		intent = models.IntentStartCamera
	}
	return models.ToggleResult{
		Success:       true,
		CameraEnabled: &enabled,
		Response:      a.responder.Respond(intent, "", nil),
	}
}

// SetMic is the explicit microphone toggle operation.
func (a *Assistant) SetMic(muted bool) models.ToggleResult {
	a.state.SetMicMuted(muted)

	intent := models.IntentUnmute
	if muted {
		intent = models.IntentMute
	}
	return models.ToggleResult{
		Success:  true,
		MicMuted: &muted,
		Response: a.responder.Respond(intent, "", nil),
	}
}

// Status returns a read-only snapshot of the session state.
func (a *Assistant) Status() models.Status {
	return a.state.Snapshot()
}
