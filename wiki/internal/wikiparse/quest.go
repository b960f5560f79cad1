package wikiparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type questParser struct{}

func (questParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeQuest, title)

	box := findInfobox(doc)
	if box != nil {
		eachInfoboxRow(box, func(key, value string, _ *goquery.Selection) {
			switch {
			case strings.Contains(key, "quest type"), key == "type":
				b.set("category", questCategory(value))
			case strings.Contains(key, "giver"):
				b.set("giver", value)
			case strings.Contains(key, "objective"):
				b.set("objectives", splitList(value))
			case strings.Contains(key, "reward"):
				b.set("rewards", splitList(value))
			case strings.Contains(key, "time limit"):
				b.set("time_limit", value)
			}
		})
	}

	// Aggregate pages like "Quests" list quest names in tables instead of
	// carrying an infobox.
	b.step("extract quest list", func() error {
		if quests := questList(doc); len(quests) > 0 {
			b.set("quests", quests)
		}
		return nil
	})

	return b.record()
}

func questCategory(value string) string {
	lower := strings.ToLower(value)
	switch {
	case strings.Contains(lower, "story"):
		return "story"
	case strings.Contains(lower, "help wanted"):
		return "help-wanted"
	case strings.Contains(lower, "special"):
		return "special-order"
	default:
		return strings.TrimSpace(lower)
	}
}

// questList reads quest names out of tables with a quest-name column.
func questList(doc *goquery.Document) []string {
	var quests []string
	seen := make(map[string]bool)
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		if tbl.HasClass("infobox") {
			return
		}
		headers := tableHeaders(tbl)
		if !headersContain(headers, "quest") && !headersContain(headers, "name") {
			return
		}
		tbl.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			name := strings.TrimSpace(row.Find("td").First().Text())
			if name == "" || seen[name] {
				return
			}
			seen[name] = true
			quests = append(quests, name)
		})
	})
	return quests
}
