package wikiparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type animalParser struct{}

func (animalParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeAnimal, title)

	box := findInfobox(doc)
	if box == nil {
		b.warnf("no infobox found")
		return b.record()
	}

	eachInfoboxRow(box, func(key, value string, _ *goquery.Selection) {
		switch {
		case strings.Contains(key, "building"), strings.Contains(key, "lives in"):
			b.set("building", value)
		case strings.Contains(key, "purchase price"), strings.Contains(key, "cost"):
			if n, ok := parsePrice(value); ok {
				b.set("purchase_price", n)
			} else {
				b.warnf("purchase price %q is not numeric", value)
			}
		case strings.Contains(key, "produce"), strings.Contains(key, "product"):
			b.set("produce", splitList(value))
		case strings.Contains(key, "days to mature"), strings.Contains(key, "maturity"):
			if n, ok := parseNumber(value); ok {
				b.set("maturity_days", n)
			}
		case strings.Contains(key, "sell") && strings.Contains(key, "price"):
			if n, ok := parsePrice(value); ok {
				b.set("sell_price", n)
			}
		}
	})

	return b.record()
}
