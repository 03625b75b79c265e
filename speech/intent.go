package speech

import (
	"strings"

	"go.uber.org/zap"

	"github.com/xoraxteam900-star/danielai/models"
)

type intentRule struct {
	intent  models.Intent
	phrases []string
}

// intentRules is evaluated top to bottom, phrases left to right; the first
// phrase contained in the command wins. The order is load-bearing — several
// phrases overlap across intents ("room clean" vs "clean") — so it is a
// fixed artifact, not a map.
var intentRules = []intentRule{
	{models.IntentRoomStatus, []string{
		"what's happening in my room",
		"what is happening in my room",
		"what's in my room",
		"describe my room",
		"describe room",
		"what do you see",
		"what do you see in my room",
	}},
	{models.IntentCheckDirty, []string{
		"check if my room dirty",
		"check if my room is dirty",
		"is my room dirty",
		"is my room clean",
		"how messy is my room",
		"is my room messy",
		"room dirty",
		"room clean",
	}},
	{models.IntentStopCamera, []string{
		"stop camera",
		"turn off camera",
		"close camera",
		"disable camera",
	}},
	{models.IntentStartCamera, []string{
		"start camera",
		"turn on camera",
		"open camera",
		"enable camera",
	}},
	{models.IntentMute, []string{
		"mute",
		"mute microphone",
		"mute mic",
	}},
	{models.IntentUnmute, []string{
		"unmute",
		"unmute microphone",
		"unmute mic",
	}},
	{models.IntentHelp, []string{
		"help",
		"what can you do",
		"commands",
		"list commands",
	}},
	{models.IntentStopListening, []string{
		"stop listening",
		"stop",
		"go to sleep",
		"goodbye",
		"bye",
	}},
}

// Classify maps a command to an intent plus the residual parameters (the
// command with the matched phrase removed once, trimmed). An unmatched
// non-empty command defaults to room_status with the full command as
// residual, on the assumption that an unparsed utterance is a room query.
// An empty command is unknown.
func Classify(command string) (models.Intent, string) {
	command = strings.ToLower(strings.TrimSpace(command))

	for _, rule := range intentRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(command, phrase) {
				residual := strings.TrimSpace(strings.Replace(command, phrase, "", 1))
				zap.L().Debug("Matched intent",
					zap.String("intent", string(rule.intent)),
					zap.String("phrase", phrase))
				return rule.intent, residual
			}
		}
	}

	if command != "" {
		zap.L().Debug("No intent matched, treating as room query",
			zap.String("command", command))
		return models.IntentRoomStatus, command
	}

	return models.IntentUnknown, ""
}
