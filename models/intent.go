package models

// Intent is the discrete command category recognized from an utterance.
type Intent string

const (
	IntentRoomStatus    Intent = "room_status"
	IntentCheckDirty    Intent = "check_dirty"
	IntentStopCamera    Intent = "stop_camera"
	IntentStartCamera   Intent = "start_camera"
	IntentMute          Intent = "mute"
	IntentUnmute        Intent = "unmute"
	IntentHelp          Intent = "help"
	IntentStopListening Intent = "stop_listening"
	IntentUnknown       Intent = "unknown"
)

// NeedsRoomContext reports whether answering the intent requires a room
// analysis (cached or fresh).
func (i Intent) NeedsRoomContext() bool {
	return i == IntentRoomStatus || i == IntentCheckDirty
}
