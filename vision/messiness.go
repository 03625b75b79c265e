package vision

import (
	"bytes"
	"image"
	"math"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"

	"github.com/xoraxteam900-star/danielai/models"
)

// Label sets for messiness scoring. A detection counts as messy when any
// term occurs as a case-insensitive substring of its label.
var messyObjects = []string{
	"bottle", "cup", "bowl", "fork", "knife", "spoon", "plate",
	"tie", "backpack", "handbag", "suitcase",
	"book", "newspaper", "magazine", "paper",
	"potted plant", "vase", "remote", "cell phone", "keyboard",
	"mouse", "laptop", "tv", "umbrella",
}

var neutralObjects = []string{
	"chair", "couch", "bed", "dining table", "toilet", "sink",
	"bathtub", "refrigerator", "oven", "microwave", "washer",
	"lamp", "light", "window", "door", "floor",
}

// sobelEdgeThreshold is the gradient magnitude above which a pixel counts
// as an edge.
const sobelEdgeThreshold = 128

// AnalyzeMessiness scores how messy the room looks from the detection list
// and, when a frame is supplied, the edge density of the image. Each
// component contributes at most 50, so the total stays in 0-100.
// Texture analysis failures degrade to a zero edge score; object scoring
// always completes.
func AnalyzeMessiness(detections []models.Detection, frame []byte) *models.MessinessResult {
	messyCount := 0
	neutralCount := 0
	for _, det := range detections {
		label := strings.ToLower(det.Label)
		if containsAny(label, messyObjects) {
			messyCount++
		} else if containsAny(label, neutralObjects) {
			neutralCount++
		}
	}

	edgeScore := 0
	if len(frame) > 0 {
		edgeScore = edgeDensityScore(frame)
	}

	objectScore := messyCount * 10
	if objectScore > 50 {
		objectScore = 50
	}
	if edgeScore > 50 {
		edgeScore = 50
	}

	total := objectScore + edgeScore

	var level models.MessinessLevel
	switch {
	case total < 25:
		level = models.LevelClean
	case total < 50:
		level = models.LevelModerate
	default:
		level = models.LevelMessy
	}

	result := &models.MessinessResult{
		Score:        total,
		Level:        level,
		MessyObjects: messyCount,
		EdgeScore:    edgeScore,
		TotalObjects: len(detections),
	}

	zap.L().Info("Messiness analysis",
		zap.Int("score", result.Score),
		zap.String("level", string(result.Level)),
		zap.Int("messy_objects", result.MessyObjects),
		zap.Int("neutral_objects", neutralCount),
		zap.Int("edge_score", result.EdgeScore))

	return result
}

func containsAny(label string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(label, term) {
			return true
		}
	}
	return false
}

// edgeDensityScore decodes the frame, converts to grayscale, runs a Sobel
// filter and returns round(100 * edge_pixels / total_pixels), capped later
// by the caller. Returns 0 on any failure.
func edgeDensityScore(frame []byte) int {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		zap.L().Warn("Edge analysis skipped, image decode failed", zap.Error(err))
		return 0
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	gray := make([][]float64, h)
	for y := 0; y < h; y++ {
		gray[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Luminance weights, values scaled down from 16-bit.
			gray[y][x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
		}
	}

	edgeCount := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -gray[y-1][x-1] - 2*gray[y][x-1] - gray[y+1][x-1] +
				gray[y-1][x+1] + 2*gray[y][x+1] + gray[y+1][x+1]
			gy := -gray[y-1][x-1] - 2*gray[y-1][x] - gray[y-1][x+1] +
				gray[y+1][x-1] + 2*gray[y+1][x] + gray[y+1][x+1]
			if math.Sqrt(gx*gx+gy*gy) > sobelEdgeThreshold {
				edgeCount++
			}
		}
	}

	total := w * h
	return int(math.Round(100 * float64(edgeCount) / float64(total)))
}
