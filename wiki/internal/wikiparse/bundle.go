package wikiparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type bundleParser struct{}

// slotsRe matches "choose N of M" wording such as "Any 4 of the following".
var slotsRe = regexp.MustCompile(`(?i)(?:any\s+)?(\d+)\s+of the following`)

// qualityWords are the item-quality tiers a requirement can demand.
var qualityWords = []string{"iridium", "gold", "silver"}

func (bundleParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeBundle, title)

	box := findInfobox(doc)
	if box != nil {
		eachInfoboxRow(box, func(key, value string, _ *goquery.Selection) {
			switch {
			case strings.Contains(key, "room"), strings.Contains(key, "location"):
				b.set("room", value)
			case strings.Contains(key, "reward"):
				b.set("reward", value)
			}
		})
	}

	b.step("extract requirements", func() error {
		requirements := bundleRequirements(doc, title)
		if len(requirements) == 0 {
			b.warnf("no requirement table found")
			return nil
		}
		b.set("requirements", requirements)
		return nil
	})

	// "Choose N of M" bundles need fewer items than they list.
	if m := slotsRe.FindStringSubmatch(doc.Text()); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			b.set("slots", n)
		}
	}

	return b.record()
}

// bundleRequirements reads item rows from the first table that looks like a
// requirements table. A malformed row is skipped, not fatal.
func bundleRequirements(doc *goquery.Document, title string) []map[string]any {
	var requirements []map[string]any
	seen := make(map[string]bool)

	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		headers := tableHeaders(tbl)
		if !headersContain(headers, "item") && !headersContain(headers, "source") {
			return true
		}
		tbl.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header
			}
			rowText := strings.ToLower(row.Text())
			if strings.Contains(rowText, "reward") {
				return
			}
			cells := row.Find("td")
			if cells.Length() == 0 {
				return
			}
			item := strings.TrimSpace(cells.Eq(0).Text())
			if item == "" || item == title || seen[strings.ToLower(item)] {
				return
			}
			seen[strings.ToLower(item)] = true

			req := map[string]any{"item": item, "quantity": 1}
			if cells.Length() > 1 {
				if n, ok := parseNumber(cells.Eq(1).Text()); ok {
					req["quantity"] = n
				}
			}
			for _, q := range qualityWords {
				if strings.Contains(rowText, q+" quality") {
					req["quality"] = q
					break
				}
			}
			requirements = append(requirements, req)
		})
		return len(requirements) == 0
	})
	return requirements
}
