package wikiparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type recipeParser struct{}

// ingredientRe matches the concatenated "Wood(50)Coal(1)" rendering of
// infobox ingredient cells.
var ingredientRe = regexp.MustCompile(`([A-Za-z][A-Za-z' ]*)\((\d+)\)`)

func (recipeParser) Parse(doc *goquery.Document, title string) *Record {
	b := newBuilder(TypeRecipe, title)

	box := findInfobox(doc)
	if box == nil {
		b.warnf("no infobox found")
		return b.record()
	}

	eachInfoboxRow(box, func(key, value string, _ *goquery.Selection) {
		switch {
		case strings.Contains(key, "recipe source"):
			b.set("unlock_source", value)
		case strings.Contains(key, "source"):
			lower := strings.ToLower(value)
			if strings.Contains(lower, "cooking") {
				b.set("recipe_type", "cooking")
			} else if strings.Contains(lower, "crafting") {
				b.set("recipe_type", "crafting")
			}
			b.set("source", value)
		case strings.Contains(key, "ingredient"):
			b.step("extract ingredients", func() error {
				items := itemQuantityList(value)
				if len(items) == 0 {
					return fmt.Errorf("no ingredients recognized in %q", value)
				}
				b.set("ingredients", items)
				return nil
			})
		case strings.Contains(key, "produce"), strings.Contains(key, "product"):
			b.step("extract products", func() error {
				if items := itemQuantityList(value); len(items) > 0 {
					b.set("products", items)
				}
				return nil
			})
		case strings.Contains(key, "buff duration"):
			b.set("buff_duration", value)
		case strings.Contains(key, "buff"):
			b.set("buffs", splitList(value))
		case strings.Contains(key, "energy"):
			b.step("extract energy/health", func() error {
				energy, health, ok := splitEnergyHealth(value)
				if !ok {
					return fmt.Errorf("cannot read restoration values from %q", value)
				}
				b.set("energy", energy)
				if health >= 0 {
					b.set("health", health)
				}
				return nil
			})
		case strings.Contains(key, "sell") && strings.Contains(key, "price"):
			if strings.Contains(strings.ToLower(value), "cannot be sold") {
				return
			}
			if n, ok := parsePrice(value); ok {
				b.set("sell_price", n)
			}
		}
	})

	return b.record()
}

// itemQuantityList parses "Name(qty)" sequences into {item, quantity} pairs.
// A malformed pair is skipped.
func itemQuantityList(s string) []map[string]any {
	var items []map[string]any
	for _, m := range ingredientRe.FindAllStringSubmatch(s, -1) {
		qty, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		items = append(items, map[string]any{
			"item":     strings.TrimSpace(m[1]),
			"quantity": qty,
		})
	}
	return items
}

// splitEnergyHealth reads the combined energy/health cell. The wiki renders
// the two values run together ("7533" for 75 energy, 33 health); split at
// the midpoint when no separator survives text extraction.
func splitEnergyHealth(s string) (energy, health int, ok bool) {
	nums := numberRe.FindAllString(s, -1)
	switch {
	case len(nums) >= 2:
		e, err1 := strconv.Atoi(nums[0])
		h, err2 := strconv.Atoi(nums[1])
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return e, h, true
	case len(nums) == 1 && len(nums[0]) >= 3:
		full := nums[0]
		mid := len(full) / 2
		e, err1 := strconv.Atoi(full[:mid])
		h, err2 := strconv.Atoi(full[mid:])
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return e, h, true
	case len(nums) == 1:
		e, err := strconv.Atoi(nums[0])
		if err != nil {
			return 0, 0, false
		}
		return e, -1, true
	}
	return 0, 0, false
}
