package wikiparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type monsterParser struct{}

// monsterStats maps infobox keys to numeric record fields.
var monsterStats = map[string]string{
	"base hp":     "base_hp",
	"base damage": "base_damage",
	"base def":    "base_def",
	"speed":       "speed",
	"xp":          "xp",
}

func (monsterParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeMonster, title)

	box := findInfobox(doc)
	if box == nil {
		b.warnf("no infobox found")
		return b.record()
	}

	eachInfoboxRow(box, func(key, value string, cell *goquery.Selection) {
		for statKey, field := range monsterStats {
			if strings.Contains(key, statKey) {
				if n, ok := parseNumber(value); ok {
					b.set(field, n)
				} else {
					b.warnf("stat %s %q is not numeric", statKey, value)
				}
				return
			}
		}
		switch {
		case strings.Contains(key, "location"):
			b.set("locations", splitList(value))
		case strings.Contains(key, "variation"):
			b.set("variations", splitList(value))
		case strings.Contains(key, "drop"):
			b.step("extract drops", func() error {
				if drops := monsterDrops(cell); len(drops) > 0 {
					b.set("drops", drops)
				}
				return nil
			})
		}
	})

	return b.record()
}

// monsterDrops reads the dropped items from a drops cell, keeping the drop
// chance when one is rendered next to the item link.
func monsterDrops(cell *goquery.Selection) []map[string]any {
	var drops []map[string]any
	cell.Find("a").Each(func(_ int, link *goquery.Selection) {
		item := strings.TrimSpace(link.Text())
		if item == "" {
			return
		}
		drop := map[string]any{"item": item}
		if pct, ok := parseNumber(afterLink(link)); ok {
			drop["chance_percent"] = pct
		}
		drops = append(drops, drop)
	})
	if len(drops) > 0 {
		return drops
	}
	// No links: fall back to the plain text list.
	for _, item := range splitList(cell.Text()) {
		drops = append(drops, map[string]any{"item": item})
	}
	return drops
}

// afterLink returns the text node immediately following a link, where the
// wiki renders "(76%)" style drop chances.
func afterLink(link *goquery.Selection) string {
	nodes := link.Get(0)
	if nodes == nil || nodes.NextSibling == nil {
		return ""
	}
	text := nodes.NextSibling.Data
	if i := strings.IndexAny(text, ")\n"); i >= 0 {
		text = text[:i+1]
	}
	if !strings.Contains(text, "%") {
		return ""
	}
	return text
}
