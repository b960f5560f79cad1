// Package gamedata holds the small fixed vocabularies the query rewriter and
// the page classifier share: villager names, seasons, skills, and the
// season-to-festival mapping used for festival queries.
package gamedata

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Villagers lists every gift-receiving villager by canonical page title.
var Villagers = []string{
	"Abigail", "Alex", "Caroline", "Clint", "Demetrius",
	"Elliott", "Emily", "Evelyn", "George", "Gus",
	"Haley", "Harvey", "Jas", "Jodi", "Kent",
	"Leah", "Lewis", "Linus", "Marnie", "Maru",
	"Pam", "Penny", "Pierre", "Robin", "Sam",
	"Sebastian", "Shane", "Vincent", "Willy", "Wizard",
}

// Seasons in calendar order.
var Seasons = []string{"Spring", "Summer", "Fall", "Winter"}

// Skills lists the five skill page titles.
var Skills = []string{"Farming", "Mining", "Foraging", "Fishing", "Combat"}

// SeasonFestival maps each season to its flagship festival page.
var SeasonFestival = map[string]string{
	"spring": "Egg Festival",
	"summer": "Luau",
	"fall":   "Stardew Valley Fair",
	"winter": "Festival of Ice",
}

// maxNameDistance is the edit-distance tolerance for villager name matching,
// enough to absorb common misspellings ("sebastain") without false positives.
const maxNameDistance = 2

// CanonicalVillager resolves a possibly misspelled name to the canonical
// villager page title. Returns "" when nothing is close enough.
func CanonicalVillager(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	best := ""
	bestDist := maxNameDistance + 1
	for _, v := range Villagers {
		d := levenshtein.ComputeDistance(name, strings.ToLower(v))
		if d < bestDist {
			best, bestDist = v, d
		}
	}
	if bestDist > maxNameDistance {
		return ""
	}
	return best
}

// IsVillager reports whether title names a villager exactly (case-insensitive).
func IsVillager(title string) bool {
	for _, v := range Villagers {
		if strings.EqualFold(title, v) {
			return true
		}
	}
	return false
}

// SeasonIn returns the first season mentioned in the lowercased text, or "".
func SeasonIn(text string) string {
	for _, s := range Seasons {
		if strings.Contains(text, strings.ToLower(s)) {
			return s
		}
	}
	return ""
}
