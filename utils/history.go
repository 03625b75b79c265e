package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xoraxteam900-star/danielai/models"
)

const (
	historyKey = "danielai:analysis_history"
	historyCap = 100
)

// AnalysisHistory keeps a capped list of recent frame analyses in Redis so
// they can be inspected after the fact. It is telemetry only: the session
// cache never reads from it, and a nil client makes every call a no-op.
type AnalysisHistory struct {
	client *redis.Client
	logger *zap.Logger
}

func NewAnalysisHistory(client *redis.Client, logger *zap.Logger) *AnalysisHistory {
	if logger == nil {
		logger = zap.L()
	}
	return &AnalysisHistory{client: client, logger: logger}
}

type historyRecord struct {
	Timestamp    time.Time               `json:"timestamp"`
	Description  string                  `json:"description"`
	Messiness    *models.MessinessResult `json:"messiness"`
	TotalObjects int                     `json:"total_objects"`
}

// Record appends one analysis to the history list, trimming it to the cap.
// Failures are logged and swallowed; history must never fail a request.
func (h *AnalysisHistory) Record(ctx context.Context, description string, messiness *models.MessinessResult, totalObjects int) {
	if h == nil || h.client == nil {
		return
	}

	payload, err := json.Marshal(historyRecord{
		Timestamp:    time.Now(),
		Description:  description,
		Messiness:    messiness,
		TotalObjects: totalObjects,
	})
	if err != nil {
		h.logger.Error("Failed to marshal analysis record", zap.Error(err))
		return
	}

	pipe := h.client.Pipeline()
	pipe.LPush(ctx, historyKey, payload)
	pipe.LTrim(ctx, historyKey, 0, historyCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		h.logger.Warn("Failed to record analysis history", zap.Error(err))
	}
}

// Recent returns up to n most recent analysis records, newest first.
func (h *AnalysisHistory) Recent(ctx context.Context, n int) ([]json.RawMessage, error) {
	if h == nil || h.client == nil {
		return nil, nil
	}
	if n <= 0 || n > historyCap {
		n = historyCap
	}

	raw, err := h.client.LRange(ctx, historyKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]json.RawMessage, 0, len(raw))
	for _, entry := range raw {
		out = append(out, json.RawMessage(entry))
	}
	return out, nil
}
