package vision

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xoraxteam900-star/danielai/models"
)

// EmptyRoomDescription is returned when the detector saw nothing.
const EmptyRoomDescription = "I no see anything. Room dey empty."

// Bucket membership for description generation. Labels outside all three
// sets fall into the items bucket.
var (
	furnitureLabels = map[string]bool{
		"chair": true, "couch": true, "bed": true,
		"dining table": true, "toilet": true, "sink": true,
	}
	electronicsLabels = map[string]bool{
		"laptop": true, "phone": true, "tv": true, "computer": true,
		"keyboard": true, "mouse": true, "remote": true,
	}
)

// DescribeRoom builds a spoken-style summary of the detections: at most
// three clauses, in priority order people, furniture, electronics, items.
func DescribeRoom(detections []models.Detection) string {
	if len(detections) == 0 {
		return EmptyRoomDescription
	}

	peopleCount := 0
	var furniture, electronics, items []string

	for _, det := range detections {
		label := strings.ToLower(det.Label)
		switch {
		case label == "person":
			peopleCount++
		case furnitureLabels[label]:
			furniture = append(furniture, label)
		case electronicsLabels[label]:
			electronics = append(electronics, label)
		default:
			items = append(items, label)
		}
	}

	var parts []string

	if peopleCount == 1 {
		parts = append(parts, "I see one person")
	} else if peopleCount > 1 {
		parts = append(parts, fmt.Sprintf("I see %d persons", peopleCount))
	}

	if unique := dedupe(furniture); len(unique) == 1 {
		parts = append(parts, "get "+unique[0])
	} else if len(unique) > 1 {
		listed := strings.Join(unique[:len(unique)-1], ", ") + " and " + unique[len(unique)-1]
		parts = append(parts, "get "+listed)
	}

	if unique := dedupe(electronics); len(unique) == 1 {
		parts = append(parts, "one "+unique[0])
	} else if len(unique) > 1 {
		parts = append(parts, "some electronics")
	}

	if unique := dedupe(items); len(unique) > 0 {
		if len(unique) <= 3 {
			parts = append(parts, "some "+strings.Join(unique, ", "))
		} else {
			parts = append(parts, "plenty things I no go mention")
		}
	}

	if len(parts) == 0 {
		return "I see some things but I no fit describe am well well."
	}

	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, ", ") + "."
}

// dedupe returns the distinct labels sorted, so the clause wording is
// stable across identical detection sets.
func dedupe(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
