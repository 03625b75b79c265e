// Package vision derives a messiness score and a spoken room description
// from object detections, and talks to the external detection model.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xoraxteam900-star/danielai/models"
)

// Detector is the external detection model boundary. Detect returns an
// empty list when nothing is found; callers treat an error the same way and
// never run analysis on partial output.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]models.Detection, error)
}

// HTTPDetector calls a YOLO-style inference server over HTTP. The client
// is built lazily on first use; concurrent first callers share one client.
type HTTPDetector struct {
	URL           string
	ConfThreshold float64

	once   sync.Once
	client *http.Client
	logger *zap.Logger
}

func NewHTTPDetector(url string, logger *zap.Logger) *HTTPDetector {
	if url == "" {
		url = os.Getenv("DETECTOR_URL")
	}
	if logger == nil {
		logger = zap.L()
	}
	return &HTTPDetector{
		URL:           url,
		ConfThreshold: 0.3,
		logger:        logger,
	}
}

type detectRequest struct {
	Image         string  `json:"image"`
	ConfThreshold float64 `json:"conf_threshold"`
}

type detectResponse struct {
	Detections []models.Detection `json:"detections"`
}

// Detect posts the frame to the inference server and parses the detection
// list. The response order is detector-defined and treated as unordered.
func (d *HTTPDetector) Detect(ctx context.Context, image []byte) ([]models.Detection, error) {
	d.once.Do(func() {
		d.client = &http.Client{Timeout: 30 * time.Second}
		d.logger.Info("Detector client ready", zap.String("url", d.URL))
	})

	if d.URL == "" {
		return nil, fmt.Errorf("detector URL not configured")
	}

	body, err := json.Marshal(detectRequest{
		Image:         base64.StdEncoding.EncodeToString(image),
		ConfThreshold: d.ConfThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal detection request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL+"/detect", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create detection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call detector: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read detector response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed detectResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal detector response: %w", err)
	}

	d.logger.Debug("Detection complete", zap.Int("objects", len(parsed.Detections)))
	return parsed.Detections, nil
}
