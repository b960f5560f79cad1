package wikiparse

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

// genericParser is the fallback for pages no specialized parser claims. It
// walks the infobox into cleaned key/value fields, normalizing the price
// keys to plain integers, and keeps the first paragraph as a description.
type genericParser struct{}

var (
	keyCleanRe = regexp.MustCompile(`[^\w\s]`)

	priceKeys = map[string]bool{
		"sell_price":     true,
		"purchase_price": true,
		"buy_price":      true,
	}

	listKeys = map[string]string{
		"source":  "sources",
		"used_in": "uses",
	}

	descConverter = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
)

func (genericParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeGeneric, title)

	box := findInfobox(doc)
	if box == nil {
		b.warnf("no infobox found")
	} else {
		eachInfoboxRow(box, func(key, value string, _ *goquery.Selection) {
			clean := cleanKey(key)
			if clean == "" {
				return
			}
			switch {
			case priceKeys[clean]:
				if n, ok := parsePrice(value); ok {
					b.set(clean, n)
				} else {
					b.set(clean, value)
				}
			case listKeys[clean] != "":
				b.set(listKeys[clean], splitList(value))
			default:
				b.set(clean, value)
			}
		})
	}

	b.step("extract description", func() error {
		if desc := description(doc); desc != "" {
			b.set("description", desc)
		}
		return nil
	})

	return b.record()
}

func cleanKey(key string) string {
	clean := keyCleanRe.ReplaceAllString(key, "")
	clean = strings.Join(strings.Fields(strings.ToLower(clean)), "_")
	return clean
}

// description renders the page's first real paragraph as markdown so inline
// links survive extraction.
func description(doc *goquery.Document) string {
	var desc string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if strings.TrimSpace(p.Text()) == "" {
			return true
		}
		html, err := goquery.OuterHtml(p)
		if err != nil {
			desc = strings.TrimSpace(p.Text())
			return false
		}
		md, err := descConverter.ConvertString(html)
		if err != nil || strings.TrimSpace(md) == "" {
			desc = strings.TrimSpace(p.Text())
			return false
		}
		desc = strings.TrimSpace(md)
		return false
	})
	return desc
}
