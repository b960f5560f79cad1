package wikiparse

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type cropParser struct{}

func (cropParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeCrop, title)

	box := findInfobox(doc)
	if box == nil {
		b.warnf("no infobox found")
		return b.record()
	}

	eachInfoboxRow(box, func(key, value string, _ *goquery.Selection) {
		switch {
		case strings.Contains(key, "season"):
			b.step("extract seasons", func() error {
				seasons := splitList(value)
				if len(seasons) == 0 {
					return fmt.Errorf("empty season value")
				}
				b.set("seasons", seasons)
				return nil
			})
		case strings.Contains(key, "growth time"):
			b.step("extract growth time", func() error {
				n, ok := parseNumber(value)
				if !ok {
					return fmt.Errorf("%q is not numeric", value)
				}
				b.set("growth_time", n)
				return nil
			})
		case strings.Contains(key, "regrowth"):
			// Single-harvest crops show "None" here; absence is not a warning.
			if n, ok := parseNumber(value); ok {
				b.set("regrowth_time", n)
			}
		case strings.Contains(key, "seed"):
			b.set("seed", value)
		}
	})

	b.step("extract sell prices", func() error {
		if prices := sellPriceTiers(doc); len(prices) > 0 {
			b.set("sell_prices", prices)
		}
		return nil
	})

	return b.record()
}

// sellPriceTiers reads the quality/price rows of the first table mentioning
// a sell price. A malformed row is skipped, not fatal.
func sellPriceTiers(doc *goquery.Document) map[string]int {
	prices := make(map[string]int)
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(tbl.Text()), "sell price") {
			return true
		}
		tbl.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header
			}
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			quality := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
			if quality == "" {
				return
			}
			if n, ok := parsePrice(cells.Eq(1).Text()); ok {
				prices[quality] = n
			}
		})
		return false
	})
	return prices
}
