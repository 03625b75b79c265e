package models

// SpeechResult is the outcome of the transcript-driven operation.
type SpeechResult struct {
	Success          bool    `json:"success"`
	Text             string  `json:"text"`
	Confidence       float64 `json:"confidence"`
	WakeWordDetected bool    `json:"wake_word_detected"`
	Command          string  `json:"command"`
	Intent           Intent  `json:"intent"`
	Response         string  `json:"response"`
}

// CommandResult is the outcome of the command-driven operation. The room
// fields are populated only when a frame was analyzed for a context intent.
type CommandResult struct {
	Success     bool             `json:"success"`
	Intent      Intent           `json:"intent"`
	Response    string           `json:"response"`
	Description string           `json:"description,omitempty"`
	Messiness   *MessinessResult `json:"messiness,omitempty"`
	Detections  []Detection      `json:"detections,omitempty"`
}

// FrameResult is the outcome of the frame-only analysis operation.
type FrameResult struct {
	Success        bool             `json:"success"`
	Detections     []Detection      `json:"detections"`
	Messiness      *MessinessResult `json:"messiness"`
	Description    string           `json:"description"`
	AnnotatedImage string           `json:"annotated_image,omitempty"`
}

// ToggleResult is the outcome of the explicit camera/mic toggle operations.
type ToggleResult struct {
	Success       bool   `json:"success"`
	CameraEnabled *bool  `json:"camera_enabled,omitempty"`
	MicMuted      *bool  `json:"mic_muted,omitempty"`
	Response      string `json:"response"`
}

// Status is a read-only snapshot of the session state.
type Status struct {
	CameraEnabled       bool             `json:"camera_enabled"`
	MicMuted            bool             `json:"mic_muted"`
	LastRoomDescription string           `json:"last_room_description"`
	LastMessiness       *MessinessResult `json:"last_messiness"`
	Initialized         bool             `json:"initialized"`
}
