package wikiparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// findInfobox locates the page's infobox table: the table with class
// "infobox" when present, otherwise the first table on the page.
func findInfobox(doc *goquery.Document) *goquery.Selection {
	if t := doc.Find("table.infobox").First(); t.Length() > 0 {
		return t
	}
	if t := doc.Find("table").First(); t.Length() > 0 {
		return t
	}
	return nil
}

// eachInfoboxRow walks the key/value rows of an infobox table. The key is
// lowercased and trimmed; fn also receives the value cell for parsers that
// need markup, not just text.
func eachInfoboxRow(table *goquery.Selection, fn func(key, value string, valueCell *goquery.Selection)) {
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		key := strings.ToLower(strings.TrimSpace(cells.First().Text()))
		valueCell := cells.Eq(1)
		fn(key, strings.TrimSpace(valueCell.Text()), valueCell)
	})
}

var (
	numberRe = regexp.MustCompile(`\d+`)
	priceRe  = regexp.MustCompile(`(\d+)g`)
)

// parseNumber extracts the first integer from decorated text such as
// "8 days" or "1,500". Returns false when no digits are present, so callers
// can leave the field absent rather than defaulting to zero.
func parseNumber(s string) (int, bool) {
	s = strings.ReplaceAll(s, ",", "")
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parsePrice extracts a monetary value from text like "120g" or "1,500g",
// falling back to the first bare number.
func parsePrice(s string) (int, bool) {
	s = strings.ReplaceAll(s, ",", "")
	if m := priceRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n, true
		}
	}
	return parseNumber(s)
}

// splitList splits an infobox value into items on the separators the wiki
// renders between them.
func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '•' || r == '\n'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// tableHeaders returns the lowercased header cell texts of a table.
func tableHeaders(table *goquery.Selection) []string {
	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.ToLower(strings.TrimSpace(th.Text())))
	})
	return headers
}

func headersContain(headers []string, word string) bool {
	for _, h := range headers {
		if strings.Contains(h, word) {
			return true
		}
	}
	return false
}
