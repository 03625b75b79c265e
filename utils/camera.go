package utils

import (
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// CameraCapture grabs single frames from a local camera through ffmpeg.
// Used by the capture endpoint; uploaded frames bypass it entirely.
type CameraCapture struct {
	DeviceID int
}

func NewCameraCapture(deviceID int) *CameraCapture {
	return &CameraCapture{DeviceID: deviceID}
}

// captureArgs builds the ffmpeg argument list for one JPEG frame on the
// given platform. Windows dshow selects devices by name, so DeviceID maps
// to -video_device_number there.
func captureArgs(goos string, deviceID int) ([]string, error) {
	var input []string
	switch goos {
	case "darwin":
		input = []string{
			"-f", "avfoundation",
			"-video_size", "640x480",
			"-framerate", "30",
			"-i", fmt.Sprintf("%d", deviceID),
		}
	case "linux":
		input = []string{
			"-f", "v4l2",
			"-video_size", "640x480",
			"-i", fmt.Sprintf("/dev/video%d", deviceID),
		}
	case "windows":
		input = []string{
			"-f", "dshow",
			"-video_size", "640x480",
			"-video_device_number", fmt.Sprintf("%d", deviceID),
			"-i", "video=USB Camera",
		}
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", goos)
	}

	return append(input,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "2",
		"-"), nil
}

// CaptureFrame captures one JPEG frame from the camera.
func (c *CameraCapture) CaptureFrame() ([]byte, error) {
	args, err := captureArgs(runtime.GOOS, c.DeviceID)
	if err != nil {
		return nil, err
	}

	output, err := exec.Command("ffmpeg", args...).Output()
	if err != nil {
		zap.L().Error("Failed to capture frame from camera", zap.Error(err))
		return nil, fmt.Errorf("failed to capture frame: %w", err)
	}

	if len(output) == 0 {
		return nil, fmt.Errorf("no frame data captured")
	}

	zap.L().Debug("Captured camera frame", zap.Int("size", len(output)))
	return output, nil
}

// TryCapture attempts the primary capture path and, on macOS, falls back
// to imagesnap when ffmpeg is unavailable.
func (c *CameraCapture) TryCapture() ([]byte, error) {
	data, err := c.CaptureFrame()
	if err == nil {
		return data, nil
	}

	zap.L().Warn("Primary capture method failed, trying alternatives", zap.Error(err))

	if runtime.GOOS == "darwin" {
		cmd := exec.Command("imagesnap", "-d", fmt.Sprintf("%d", c.DeviceID), "-f", "jpeg", "-")
		data, err := cmd.Output()
		if err == nil && len(data) > 0 {
			return data, nil
		}
		zap.L().Warn("Alternative capture method also failed", zap.Error(err))
	}

	return nil, fmt.Errorf("all capture methods failed")
}
