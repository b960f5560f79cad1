package wikiparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type fishParser struct{}

func (fishParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeFish, title)

	box := findInfobox(doc)
	if box == nil {
		b.warnf("no infobox found")
		return b.record()
	}

	eachInfoboxRow(box, func(key, value string, _ *goquery.Selection) {
		switch {
		case strings.Contains(key, "location"):
			b.set("locations", splitList(value))
		case strings.Contains(key, "season"):
			b.set("seasons", splitList(value))
		case strings.Contains(key, "time"):
			b.set("time", value)
		case strings.Contains(key, "weather"):
			b.set("weather", value)
		case strings.Contains(key, "difficulty"):
			// "50 mixed" style values: keep the number, note the behavior word.
			if n, ok := parseNumber(value); ok {
				b.set("difficulty", n)
			} else {
				b.set("behavior", value)
			}
		case strings.Contains(key, "sell") && strings.Contains(key, "price"):
			if n, ok := parsePrice(value); ok {
				b.set("sell_price", n)
			}
		}
	})

	return b.record()
}
