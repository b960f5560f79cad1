package wikiparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// collectionParser handles the aggregate Artifacts and Minerals pages, which
// render their members as wikitable rows.
type collectionParser struct {
	pageType PageType
}

func (p collectionParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(p.pageType, title)

	b.step("extract collection items", func() error {
		items := collectionItems(doc)
		if len(items) == 0 {
			b.warnf("no collection table found")
			return nil
		}
		b.set("items", items)
		b.set("total_count", len(items))
		return nil
	})

	return b.record()
}

// collectionItems reads member rows from tables with a name column. Each row
// yields name, description, location, and sell value where present; a
// malformed row is skipped.
func collectionItems(doc *goquery.Document) []map[string]any {
	var items []map[string]any
	seen := make(map[string]bool)

	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		if tbl.HasClass("infobox") {
			return
		}
		headers := tableHeaders(tbl)
		if !headersContain(headers, "name") {
			return
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
			if name == "" || seen[name] {
				return
			}
			seen[name] = true

			item := map[string]any{"name": name}
			if cells.Length() > 1 {
				item["description"] = strings.TrimSpace(cells.Eq(1).Text())
			}
			if cells.Length() > 2 {
				item["location"] = strings.TrimSpace(cells.Eq(2).Text())
			}
			if cells.Length() > 3 {
				if n, ok := parsePrice(cells.Eq(3).Text()); ok {
					item["value"] = n
				}
			}
			items = append(items, item)
		})
	})
	return items
}
