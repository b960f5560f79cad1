package wikiparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type achievementParser struct{}

func (achievementParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeAchievement, title)

	box := findInfobox(doc)
	if box != nil {
		eachInfoboxRow(box, func(key, value string, _ *goquery.Selection) {
			switch {
			case strings.Contains(key, "description"), strings.Contains(key, "unlock"):
				b.set("description", value)
			case strings.Contains(key, "category"):
				b.set("category", value)
			case strings.Contains(key, "point"):
				if n, ok := parseNumber(value); ok {
					b.set("points", n)
				}
			}
		})
	}

	// The aggregate Achievements page is a name/description table.
	b.step("extract achievement list", func() error {
		if list := achievementList(doc); len(list) > 0 {
			b.set("achievements", list)
		}
		return nil
	})

	return b.record()
}

func achievementList(doc *goquery.Document) []map[string]any {
	var list []map[string]any
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		if tbl.HasClass("infobox") {
			return true
		}
		headers := tableHeaders(tbl)
		if !headersContain(headers, "description") {
			return true
		}
		tbl.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			name := strings.TrimSpace(cells.Eq(0).Text())
			desc := strings.TrimSpace(cells.Eq(1).Text())
			if name == "" {
				return
			}
			entry := map[string]any{"name": name, "description": desc}
			if cells.Length() > 2 {
				if n, ok := parseNumber(cells.Eq(2).Text()); ok {
					entry["points"] = n
				}
			}
			list = append(list, entry)
		})
		return false
	})
	return list
}
