package speech

import (
	"bytes"
	"context"
	"os"
	"sync"

	listenv1 "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/pkg/client/listen"
	"go.uber.org/zap"
)

// Transcriber is the external speech engine boundary. Implementations must
// degrade to an empty transcript with zero confidence on internal failure
// rather than surface a hard error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (text string, confidence float64)
}

// DeepgramTranscriber sends audio payloads to Deepgram's prerecorded API.
// The underlying client is expensive to set up, so it is created lazily on
// first use and shared read-only afterwards.
type DeepgramTranscriber struct {
	Language string
	Model    string

	once   sync.Once
	client *listenv1.Client
	logger *zap.Logger
}

func NewDeepgramTranscriber(logger *zap.Logger) *DeepgramTranscriber {
	if logger == nil {
		logger = zap.L()
	}
	return &DeepgramTranscriber{
		Language: "en",
		Model:    "nova-2",
		logger:   logger,
	}
}

func (t *DeepgramTranscriber) init() {
	if os.Getenv("DEEPGRAM_API_KEY") == "" {
		t.logger.Warn("DEEPGRAM_API_KEY not set, transcription will be unavailable")
		return
	}
	rest := listen.NewRESTWithDefaults()
	t.client = listenv1.New(rest)
	t.logger.Info("Deepgram client ready", zap.String("model", t.Model))
}

// Transcribe sends the audio to Deepgram and returns the top alternative.
// Any failure is logged and degraded to ("", 0).
func (t *DeepgramTranscriber) Transcribe(ctx context.Context, audio []byte) (string, float64) {
	t.once.Do(t.init)

	if t.client == nil {
		return "", 0
	}

	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       t.Model,
		Language:    t.Language,
		SmartFormat: true,
		Punctuate:   true,
	}

	res, err := t.client.FromStream(ctx, bytes.NewReader(audio), options)
	if err != nil {
		t.logger.Error("Transcription failed", zap.Error(err))
		return "", 0
	}

	if res == nil || len(res.Results.Channels) == 0 || len(res.Results.Channels[0].Alternatives) == 0 {
		t.logger.Warn("No transcription alternatives returned")
		return "", 0
	}

	alt := res.Results.Channels[0].Alternatives[0]
	t.logger.Info("Transcription complete",
		zap.String("text", alt.Transcript),
		zap.Float64("confidence", alt.Confidence))

	return alt.Transcript, alt.Confidence
}
