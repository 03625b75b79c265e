package models

// Transcript is the output of the speech engine for one audio payload.
type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Detection is a single labeled bounding box from the detection model.
// BBox is (x1, y1, x2, y2) in pixel coordinates.
type Detection struct {
	Label      string     `json:"class"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
}

// MessinessLevel buckets a messiness score into a spoken category.
type MessinessLevel string

const (
	LevelClean    MessinessLevel = "clean"
	LevelModerate MessinessLevel = "moderate"
	LevelMessy    MessinessLevel = "messy"
)

// MessinessResult is the derived messiness analysis for one frame.
// Score is ObjectScore + EdgeScore, each component capped at 50.
type MessinessResult struct {
	Score        int            `json:"score"`
	Level        MessinessLevel `json:"level"`
	MessyObjects int            `json:"messy_objects"`
	EdgeScore    int            `json:"edge_score"`
	TotalObjects int            `json:"total_objects"`
}

// RoomAnalysis bundles everything derived from one frame.
// AnnotatedImage is a base64 JPEG with detection boxes drawn on, kept
// opaquely for display; core logic never reads it.
type RoomAnalysis struct {
	Detections     []Detection      `json:"detections"`
	Messiness      *MessinessResult `json:"messiness"`
	Description    string           `json:"description"`
	AnnotatedImage string           `json:"annotated_image,omitempty"`
}
