package wikiparse

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type skillParser struct{}

func (skillParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeSkill, title)

	b.step("extract level unlocks", func() error {
		levels, professions := skillLevels(doc)
		if len(levels) == 0 && len(professions) == 0 {
			b.warnf("no level table found")
			return nil
		}
		if len(levels) > 0 {
			b.set("levels", levels)
		}
		if len(professions) > 0 {
			b.set("professions", professions)
		}
		return nil
	})

	return b.record()
}

// skillLevels reads the level 1-10 unlock table. Rows at levels 5 and 10
// offering an either/or choice become profession branches instead of plain
// unlocks.
func skillLevels(doc *goquery.Document) ([]map[string]any, map[string][]string) {
	var levels []map[string]any
	professions := make(map[string][]string)

	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		if !headersContain(tableHeaders(tbl), "level") {
			return true
		}
		tbl.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			level, ok := parseNumber(cells.Eq(0).Text())
			if !ok || level < 1 || level > 10 {
				return
			}
			text := strings.TrimSpace(cells.Eq(1).Text())
			if (level == 5 || level == 10) && strings.Contains(text, " or ") {
				var choices []string
				for _, c := range strings.Split(text, " or ") {
					if c = strings.TrimSpace(c); c != "" {
						choices = append(choices, c)
					}
				}
				professions[strconv.Itoa(level)] = choices
				return
			}
			levels = append(levels, map[string]any{
				"level":   level,
				"unlocks": splitList(text),
			})
		})
		return false
	})
	return levels, professions
}
