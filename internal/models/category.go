package models

import "strings"

// Category is one of the fixed competition tracks. It binds both staff
// members and participants: a staff member may only evaluate participants
// registered in the same category.
type Category string

const (
	CategoryRoboRace     Category = "robo_race"
	CategoryRoboSumo     Category = "robo_sumo"
	CategoryWorkingModel Category = "working_model"
)

// Categories lists all tracks in display order.
var Categories = []Category{
	CategoryRoboRace,
	CategoryRoboSumo,
	CategoryWorkingModel,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryRoboRace, CategoryRoboSumo, CategoryWorkingModel:
		return true
	}
	return false
}

// Label renders the human-readable form, e.g. "robo_race" -> "Robo Race".
func (c Category) Label() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ParseCategory normalizes free-text track labels from uploads: trims,
// lower-cases, replaces spaces with underscores, then matches exactly or by
// substring ("race", "sumo", "working"/"model"). Unrecognized text yields
// ok=false and the participant stays uncategorized.
func ParseCategory(raw string) (Category, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "_")

	if c := Category(s); c.Valid() {
		return c, true
	}

	switch {
	case strings.Contains(s, "race"):
		return CategoryRoboRace, true
	case strings.Contains(s, "sumo"):
		return CategoryRoboSumo, true
	case strings.Contains(s, "working"), strings.Contains(s, "model"):
		return CategoryWorkingModel, true
	}

	return "", false
}
