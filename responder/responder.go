// Package responder turns a resolved intent plus optional room context
// into a spoken-style reply, picked from fixed per-intent template pools.
package responder

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/xoraxteam900-star/danielai/models"
)

// FallbackDescription substitutes for an empty room description in
// room_status templates.
const FallbackDescription = "nothing special dey happen"

// Templates for room_status interpolate {description}.
var roomStatusTemplates = []string{
	"Yes boss, I dey. {description}",
	"Boss, {description}",
	"I see {description}",
	"Your room be like {description}",
}

var checkDirtyTemplates = map[models.MessinessLevel][]string{
	models.LevelClean: {
		"Boss your room clean abeg! No stress.",
		"I no see wahala. Room fine oo.",
		"Your room tidy well well! Good boy.",
		"Room clean like new. You tried!",
	},
	models.LevelMessy: {
		"Boss your room messy oo, you for clean am.",
		"E choke! Room too dirty. Clean am na!",
		"Your room need attention oo. Too much things for floor.",
		"Abeg, room messy well. You go clean am now?",
	},
	models.LevelModerate: {
		"Room nor clean nor dirty. E be like moderate.",
		"Room dey half clean. You fit tidy am small.",
		"E get as e be. Room need small cleaning.",
	},
}

var intentTemplates = map[models.Intent][]string{
	models.IntentStopCamera: {
		"Camera don close boss.",
		"Camera off. I no go look again.",
		"Done! Camera dey off now.",
	},
	models.IntentStartCamera: {
		"Camera don open boss.",
		"Camera on! I go watch your room now.",
		"Ready! Camera dey work.",
	},
	models.IntentMute: {
		"Mic don mute boss.",
		"I go deaf now. Muted!",
		"Done! I no go hear anything.",
	},
	models.IntentUnmute: {
		"Mic don unmute boss.",
		"I dey hear now! Unmuted!",
		"Ready! I go listen for you.",
	},
	models.IntentHelp: {
		"Boss, you fit tell me: 'what's happening in my room' for room description, 'check if my room dirty' for messiness check, 'stop camera' or 'start camera' for camera control, 'mute' or 'unmute' for mic control, or 'help' to see this message.",
		"I understand these commands: room description, check dirty, camera on/off, mute/unmute, and help.",
		"You fit ask me about your room, check if e dirty, control camera, or mute. Just say the word boss!",
	},
	models.IntentStopListening: {
		"Goodbye boss! I go sleep now.",
		"Bye bye! Call me when you need me.",
		"I go rest. Say 'Hey Daniel' when you ready.",
	},
	models.IntentUnknown: {
		"Sorry boss, I no understand. Try again.",
		"E dey confuse me. Repeat am please.",
		"I no get am. Help me understand better.",
	},
}

// Responder selects replies using an injected random source, so tests can
// seed it and the selection stays safe for concurrent requests.
type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a Responder from a random source. A nil source gets a
// time-free default seed; production callers usually pass a seeded source.
func New(src rand.Source) *Responder {
	if src == nil {
		src = rand.NewSource(1)
	}
	return &Responder{rng: rand.New(src)}
}

// Respond picks a reply for the intent. The description is interpolated
// for room_status; messiness selects the check_dirty pool, defaulting to
// moderate when absent. Any unrecognized intent falls back to the unknown
// pool rather than failing.
func (r *Responder) Respond(intent models.Intent, description string, messiness *models.MessinessResult) string {
	switch {
	case intent == models.IntentRoomStatus:
		if description == "" {
			description = FallbackDescription
		}
		tpl := r.pick(roomStatusTemplates)
		return strings.ReplaceAll(tpl, "{description}", description)

	case intent == models.IntentCheckDirty:
		level := models.LevelModerate
		if messiness != nil {
			level = messiness.Level
		}
		pool, ok := checkDirtyTemplates[level]
		if !ok {
			pool = checkDirtyTemplates[models.LevelModerate]
		}
		return r.pick(pool)

	default:
		pool, ok := intentTemplates[intent]
		if !ok {
			pool = intentTemplates[models.IntentUnknown]
		}
		return r.pick(pool)
	}
}

func (r *Responder) pick(pool []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pool[r.rng.Intn(len(pool))]
}

// Pool exposes the template pool for an intent so callers (and tests) can
// assert membership instead of depending on the random pick. check_dirty
// pools are level-keyed and returned for the moderate default here.
func Pool(intent models.Intent) []string {
	switch intent {
	case models.IntentRoomStatus:
		return roomStatusTemplates
	case models.IntentCheckDirty:
		return checkDirtyTemplates[models.LevelModerate]
	default:
		if pool, ok := intentTemplates[intent]; ok {
			return pool
		}
		return intentTemplates[models.IntentUnknown]
	}
}

// PoolForLevel exposes the check_dirty pool for a messiness level.
func PoolForLevel(level models.MessinessLevel) []string {
	if pool, ok := checkDirtyTemplates[level]; ok {
		return pool
	}
	return checkDirtyTemplates[models.LevelModerate]
}
