package wikiparse

import (
	"strings"

	"github.com/oakhollow/stardewiki/wiki/internal/gamedata"
)

// PageType selects which parser applies to a fetched page.
type PageType string

const (
	TypeCrop        PageType = "crop"
	TypeNPC         PageType = "npc"
	TypeFish        PageType = "fish"
	TypeRecipe      PageType = "recipe"
	TypeBundle      PageType = "bundle"
	TypeSkill       PageType = "skill"
	TypeQuest       PageType = "quest"
	TypeAchievement PageType = "achievement"
	TypeMonster     PageType = "monster"
	TypeAnimal      PageType = "animal"
	TypeArtifacts   PageType = "collection-artifact"
	TypeMinerals    PageType = "collection-mineral"
	TypeGeneric     PageType = "generic-item"
)

// titleOverrides resolves known singleton pages whose category tags would
// otherwise misclassify them (the skill pages carry achievement categories,
// the Quests page carries an Achievements tag, and so on).
var titleOverrides = map[string]PageType{
	"quests":         TypeQuest,
	"special orders": TypeQuest,
	"achievements":   TypeAchievement,
	"artifacts":      TypeArtifacts,
	"minerals":       TypeMinerals,
	"bundles":        TypeBundle,
	"farming":        TypeSkill,
	"mining":         TypeSkill,
	"foraging":       TypeSkill,
	"fishing":        TypeSkill,
	"combat":         TypeSkill,
}

// categoryKeywords are checked in order; the first category tag containing a
// keyword wins.
var categoryKeywords = []struct {
	words []string
	t     PageType
}{
	{[]string{"crop"}, TypeCrop},
	{[]string{"villager", "npc"}, TypeNPC},
	{[]string{"fish"}, TypeFish},
	{[]string{"cooking", "recipe", "crafting"}, TypeRecipe},
	{[]string{"bundle"}, TypeBundle},
	{[]string{"monster"}, TypeMonster},
	{[]string{"achievement"}, TypeAchievement},
	{[]string{"quest"}, TypeQuest},
	{[]string{"animal"}, TypeAnimal},
	{[]string{"artifact"}, TypeArtifacts},
	{[]string{"mineral"}, TypeMinerals},
}

// Classify decides the page type from the title and category tags.
// Exact-title overrides beat the category heuristic, which beats the
// generic-item fallback.
func Classify(title string, categories []string) PageType {
	lowerTitle := strings.ToLower(strings.TrimSpace(title))
	if t, ok := titleOverrides[lowerTitle]; ok {
		return t
	}

	lowerCats := make([]string, len(categories))
	for i, c := range categories {
		lowerCats[i] = strings.ToLower(c)
	}
	for _, kw := range categoryKeywords {
		for _, cat := range lowerCats {
			for _, w := range kw.words {
				if strings.Contains(cat, w) {
					return kw.t
				}
			}
		}
	}

	// Titles are a weaker fallback signal for pages with no usable categories.
	if strings.Contains(lowerTitle, "bundle") {
		return TypeBundle
	}
	if gamedata.IsVillager(title) {
		return TypeNPC
	}
	return TypeGeneric
}
