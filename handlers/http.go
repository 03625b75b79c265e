package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/xoraxteam900-star/danielai/models"
	"github.com/xoraxteam900-star/danielai/utils"
)

const maxUploadBytes = 32 << 20

// apologyReply is the generic user-facing failure reply. Callers never see
// raw technical errors.
const apologyReply = "Sorry boss, something go wrong. Try again."

// Server is the HTTP surface over the Assistant.
type Server struct {
	assistant *Assistant
	camera    *utils.CameraCapture
	history   *utils.AnalysisHistory
	events    *Broadcaster
	logger    *zap.Logger
}

func NewServer(assistant *Assistant, camera *utils.CameraCapture, history *utils.AnalysisHistory, events *Broadcaster, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.L()
	}
	return &Server{
		assistant: assistant,
		camera:    camera,
		history:   history,
		events:    events,
		logger:    logger,
	}
}

// Routes builds the router. Paths mirror the original API surface.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/stt", s.handleSTT).Methods(http.MethodPost)
	r.HandleFunc("/command", s.handleCommand).Methods(http.MethodPost)
	r.HandleFunc("/analyze_frame", s.handleAnalyzeFrame).Methods(http.MethodPost)
	r.HandleFunc("/camera/toggle", s.handleCameraToggle).Methods(http.MethodPost)
	r.HandleFunc("/camera/capture", s.handleCameraCapture).Methods(http.MethodPost)
	r.HandleFunc("/mic/toggle", s.handleMicToggle).Methods(http.MethodPost)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	if s.events != nil {
		r.HandleFunc("/ws", s.events.HandleWS)
	}
	return r
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return s.logger.With(
		zap.String("request_id", uuid.New().String()),
		zap.String("path", r.URL.Path))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "Daniel Voice Assistant",
		"version": "1.0.0",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.assistant.Status()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"camera_enabled": status.CameraEnabled,
		"mic_muted":      status.MicMuted,
		"initialized":    status.Initialized,
	})
}

func (s *Server) handleSTT(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeRejection(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeRejection(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Failed to read audio upload", zap.Error(err))
		writeFailure(w, logger)
		return
	}

	wakeOnly := r.FormValue("wake_word_only") == "true"

	result, err := s.assistant.ProcessAudio(r.Context(), audio, wakeOnly)
	if err == ErrEmptyAudio {
		writeRejection(w, http.StatusBadRequest, "empty audio data")
		return
	}
	if err != nil {
		logger.Error("STT processing failed", zap.Error(err))
		writeFailure(w, logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	command := r.FormValue("command")
	if command == "" {
		writeRejection(w, http.StatusBadRequest, "missing command")
		return
	}

	var frame []byte
	var frameErr error
	if frameData := r.FormValue("frame_data"); frameData != "" {
		frame, frameErr = base64.StdEncoding.DecodeString(frameData)
		if frameErr != nil {
			logger.Error("Frame decode failed", zap.Error(frameErr))
			frame = nil
		}
	}

	// A bad frame only matters to intents that would consume it. The
	// command still runs, so toggles mutate state either way.
	result := s.assistant.ProcessCommand(r.Context(), command, frame)
	if frameErr != nil && result.Intent.NeedsRoomContext() {
		result = models.CommandResult{
			Success:  true,
			Intent:   result.Intent,
			Response: frameErrorReply,
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeFrame(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeRejection(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeRejection(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	frame, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Failed to read image upload", zap.Error(err))
		writeFailure(w, logger)
		return
	}

	result, err := s.assistant.AnalyzeFrame(r.Context(), frame)
	if err == ErrEmptyImage {
		writeRejection(w, http.StatusBadRequest, "empty image data")
		return
	}
	if err != nil {
		logger.Error("Frame analysis failed", zap.Error(err))
		writeFailure(w, logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCameraCapture grabs a frame from the local camera and runs it
// through the same analysis pipeline as an uploaded frame.
func (s *Server) handleCameraCapture(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	if s.camera == nil {
		writeRejection(w, http.StatusServiceUnavailable, "no local camera configured")
		return
	}

	frame, err := s.camera.TryCapture()
	if err != nil {
		logger.Error("Camera capture failed", zap.Error(err))
		writeFailure(w, logger)
		return
	}

	result, err := s.assistant.AnalyzeFrame(r.Context(), frame)
	if err != nil {
		logger.Error("Captured frame analysis failed", zap.Error(err))
		writeFailure(w, logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCameraToggle(w http.ResponseWriter, r *http.Request) {
	enabled, err := strconv.ParseBool(r.FormValue("enabled"))
	if err != nil {
		writeRejection(w, http.StatusBadRequest, "invalid enabled value")
		return
	}
	writeJSON(w, http.StatusOK, s.assistant.SetCamera(enabled))
}

func (s *Server) handleMicToggle(w http.ResponseWriter, r *http.Request) {
	muted, err := strconv.ParseBool(r.FormValue("muted"))
	if err != nil {
		writeRejection(w, http.StatusBadRequest, "invalid muted value")
		return
	}
	writeJSON(w, http.StatusOK, s.assistant.SetMic(muted))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.assistant.Status())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	n := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			n = parsed
		}
	}

	records, err := s.history.Recent(r.Context(), n)
	if err != nil {
		logger.Error("Failed to read analysis history", zap.Error(err))
		writeFailure(w, logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"records": records,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("Failed to encode response", zap.Error(err))
	}
}

// writeRejection reports malformed input with an explicit reason, distinct
// from a silent empty result.
func writeRejection(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]interface{}{
		"success":  false,
		"error":    reason,
		"response": apologyReply,
	})
}

// writeFailure reports an internal failure without leaking details.
func writeFailure(w http.ResponseWriter, logger *zap.Logger) {
	logger.Warn("Returning generic failure to caller")
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success":  false,
		"error":    "internal error",
		"response": apologyReply,
	})
}
