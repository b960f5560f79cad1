package wikiparse

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type npcParser struct{}

// giftTiers maps record fields to the section-heading prefix the wiki uses
// ("Love", "Like", "Neutral", "Dislike", "Hate"). Prefix matching keeps
// "like" from capturing the Dislike section.
var giftTiers = []struct {
	field   string
	heading string
}{
	{"loved_gifts", "love"},
	{"liked_gifts", "like"},
	{"neutral_gifts", "neutral"},
	{"disliked_gifts", "dislike"},
	{"hated_gifts", "hate"},
}

func (npcParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeNPC, title)

	box := findInfobox(doc)
	if box == nil {
		b.warnf("no infobox found")
	} else {
		eachInfoboxRow(box, func(key, value string, _ *goquery.Selection) {
			switch {
			case strings.Contains(key, "birthday"):
				b.set("birthday", value)
			case strings.Contains(key, "marriage"):
				b.set("marriageable", strings.Contains(strings.ToLower(value), "yes"))
			case strings.Contains(key, "address"), strings.Contains(key, "lives in"):
				b.set("address", value)
			case strings.Contains(key, "family"):
				b.set("family", splitList(value))
			}
		})
	}

	for _, tier := range giftTiers {
		tier := tier
		b.step("extract "+tier.field, func() error {
			if gifts := giftSection(doc, tier.heading); len(gifts) > 0 {
				b.set(tier.field, gifts)
			}
			return nil
		})
	}

	b.step("extract heart events", func() error {
		if events := heartEvents(doc); len(events) > 0 {
			b.set("heart_events", events)
		}
		return nil
	})

	return b.record()
}

// giftSection collects the item paragraphs between the tier's h3 heading and
// the next h3. Explanatory notes are filtered out; item names are short.
func giftSection(doc *goquery.Document, heading string) []string {
	var gifts []string
	doc.Find("h3").EachWithBreak(func(_ int, h3 *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(h3.Text()))
		if !strings.HasPrefix(text, heading) {
			return true
		}
		h3.NextUntil("h3").Filter("p").Each(func(_ int, p *goquery.Selection) {
			item := strings.TrimSpace(p.Text())
			if item == "" || isGiftNote(item) {
				return
			}
			gifts = append(gifts, item)
		})
		return false
	})
	return gifts
}

func isGiftNote(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(text, "*Note") ||
		strings.HasPrefix(text, "Note:") ||
		len(text) > 50 ||
		strings.Contains(lower, "the following are") ||
		strings.Contains(lower, "not considered")
}

var heartTitleRe = regexp.MustCompile(`(?i)(\w+)\s+Heart`)

var heartWords = map[string]int{
	"two": 2, "four": 4, "six": 6, "eight": 8, "ten": 10, "fourteen": 14,
}

// heartEvents extracts the per-heart-level event subsections ("Two Hearts",
// "Four Hearts", ...). A heading that doesn't parse is skipped.
func heartEvents(doc *goquery.Document) []map[string]any {
	var events []map[string]any
	doc.Find("h3").Each(func(_ int, h3 *goquery.Selection) {
		eventTitle := strings.TrimSpace(h3.Text())
		m := heartTitleRe.FindStringSubmatch(eventTitle)
		if m == nil {
			return
		}
		level, ok := heartWords[strings.ToLower(m[1])]
		if !ok {
			return
		}
		event := map[string]any{
			"heart_level": level,
			"title":       eventTitle,
		}
		trigger := strings.TrimSpace(h3.NextAllFiltered("p").First().Text())
		if trigger != "" && len(trigger) < 200 {
			event["trigger"] = trigger
		}
		events = append(events, event)
	})
	return events
}
