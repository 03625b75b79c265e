package vision

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"go.uber.org/zap"

	"github.com/xoraxteam900-star/danielai/models"
)

var boxColor = color.RGBA{G: 255, A: 255}

// AnnotateFrame draws the detection boxes on the frame and returns it as a
// base64 JPEG for display. The result is cached opaquely by callers and
// never feeds back into analysis, so any failure just returns "".
func AnnotateFrame(frame []byte, detections []models.Detection) string {
	src, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		zap.L().Warn("Annotation skipped, image decode failed", zap.Error(err))
		return ""
	}

	canvas := image.NewRGBA(src.Bounds())
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Src)

	for _, det := range detections {
		drawBox(canvas,
			int(det.BBox[0]), int(det.BBox[1]),
			int(det.BBox[2]), int(det.BBox[3]))
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: 70}); err != nil {
		zap.L().Warn("Annotation skipped, JPEG encode failed", zap.Error(err))
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// drawBox outlines a rectangle with a 2px border, clamped to the canvas.
func drawBox(img *image.RGBA, x1, y1, x2, y2 int) {
	bounds := img.Bounds()
	clamp := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	x1 = clamp(x1, bounds.Min.X, bounds.Max.X-1)
	x2 = clamp(x2, bounds.Min.X, bounds.Max.X-1)
	y1 = clamp(y1, bounds.Min.Y, bounds.Max.Y-1)
	y2 = clamp(y2, bounds.Min.Y, bounds.Max.Y-1)

	for t := 0; t < 2; t++ {
		for x := x1; x <= x2; x++ {
			img.Set(x, clamp(y1+t, bounds.Min.Y, bounds.Max.Y-1), boxColor)
			img.Set(x, clamp(y2-t, bounds.Min.Y, bounds.Max.Y-1), boxColor)
		}
		for y := y1; y <= y2; y++ {
			img.Set(clamp(x1+t, bounds.Min.X, bounds.Max.X-1), y, boxColor)
			img.Set(clamp(x2-t, bounds.Min.X, bounds.Max.X-1), y, boxColor)
		}
	}
}
