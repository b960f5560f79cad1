// Package query rewrites free-form natural-language queries into ordered
// lists of candidate search terms. The upstream search is plain keyword
// matching; this layer recovers common question shapes by mapping them to
// known page-naming conventions, always keeping the raw query as the final
// fallback so behavior degrades to baseline keyword search.
package query

import (
	"regexp"
	"sort"
	"strings"

	"github.com/oakhollow/stardewiki/wiki/internal/gamedata"
)

var (
	giftPatterns = []*regexp.Regexp{
		regexp.MustCompile(`what does ([a-z' ]+?) (?:like|love|hate)`),
		regexp.MustCompile(`(?:best |good )?gifts? for ([a-z' ]+)`),
		regexp.MustCompile(`([a-z']+)'s favou?rite gift`),
	}
	cropPatterns = []*regexp.Regexp{
		regexp.MustCompile(`crops? (?:in|for) (spring|summer|fall|winter)`),
		regexp.MustCompile(`(spring|summer|fall|winter) crops?`),
	}
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`where (?:is|to find|are) (?:the )?([a-z' ]+)`),
		regexp.MustCompile(`how (?:do i|to) get to (?:the )?([a-z' ]+)`),
		regexp.MustCompile(`([a-z' ]+) location$`),
	}
)

// stopwords are filler words stripped by the generic fallback.
var stopwords = map[string]bool{
	"how": true, "to": true, "the": true, "a": true, "an": true,
	"what": true, "can": true, "i": true, "make": true, "with": true,
	"is": true, "are": true, "of": true, "for": true, "in": true,
	"on": true, "do": true, "does": true, "where": true, "find": true,
	"get": true, "and": true, "you": true, "my": true,
}

// Candidates derives an ordered, non-empty list of search terms from a
// free-form query. The most specific candidate comes first and the original
// query is always the last fallback. Recognizers are checked in priority
// order; the first match wins.
func Candidates(q string) []string {
	original := strings.TrimSpace(q)
	lower := strings.ToLower(strings.TrimRight(original, "?!. "))

	var cands []string
	switch {
	case matchGift(lower) != "":
		cands = []string{matchGift(lower)}
	case strings.Contains(lower, "birthday") && gamedata.SeasonIn(lower) != "":
		cands = []string{"Calendar"}
	case matchSeasonalCrops(lower) != "":
		cands = []string{matchSeasonalCrops(lower)}
	case matchLocation(lower) != "":
		cands = []string{matchLocation(lower)}
	case strings.Contains(lower, "bundle"):
		cands = matchBundle(lower)
	case strings.Contains(lower, "festival"):
		cands = matchFestival(lower)
	case strings.Contains(lower, "quest") || strings.Contains(lower, "special order"):
		cands = matchQuest(lower)
	default:
		cands = genericKeywords(lower)
	}

	return dedupe(cands, original)
}

func matchGift(lower string) string {
	for _, re := range giftPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if canonical := gamedata.CanonicalVillager(name); canonical != "" {
			return canonical
		}
		return titleCase(name)
	}
	return ""
}

func matchSeasonalCrops(lower string) string {
	// "spring crops bundle" is a bundle query, not a crop-season query.
	if strings.Contains(lower, "bundle") {
		return ""
	}
	for _, re := range cropPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return titleCase(m[1]) + " Crops"
		}
	}
	return ""
}

func matchLocation(lower string) string {
	for _, re := range locationPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return titleCase(strings.TrimSpace(m[1]))
		}
	}
	return ""
}

func matchBundle(lower string) []string {
	var words []string
	for _, w := range strings.Fields(lower) {
		switch w {
		case "community", "center", "the", "a":
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 || (len(words) == 1 && strings.HasPrefix(words[0], "bundle")) {
		return []string{"Bundles"}
	}
	// Normalize the trailing "bundles"/"bundle" word to the singular title form.
	if last := words[len(words)-1]; strings.HasPrefix(last, "bundle") {
		words[len(words)-1] = "bundle"
	} else {
		words = append(words, "bundle")
	}
	return []string{titleCase(strings.Join(words, " ")), "Bundles"}
}

func matchFestival(lower string) []string {
	if season := gamedata.SeasonIn(lower); season != "" {
		return []string{gamedata.SeasonFestival[strings.ToLower(season)], "Festivals"}
	}
	return []string{"Festivals"}
}

func matchQuest(lower string) []string {
	if strings.Contains(lower, "special order") {
		return []string{"Special Orders", "Quests"}
	}
	return []string{"Quests"}
}

// genericKeywords strips stopwords, keeping remaining content words in their
// original order, then adds single-keyword candidates longest-first as
// further fallback levels.
func genericKeywords(lower string) []string {
	var content []string
	for _, w := range strings.Fields(lower) {
		w = strings.Trim(w, "'\",.")
		if w == "" || stopwords[w] {
			continue
		}
		content = append(content, w)
	}
	if len(content) == 0 {
		return nil
	}

	cands := []string{strings.Join(content, " ")}
	if len(content) > 1 {
		singles := make([]string, len(content))
		copy(singles, content)
		sort.SliceStable(singles, func(i, j int) bool {
			return len(singles[i]) > len(singles[j])
		})
		cands = append(cands, singles...)
	}
	return cands
}

// dedupe removes case-insensitive duplicates, preserving order, and appends
// the original query as the final candidate.
func dedupe(cands []string, original string) []string {
	seen := make(map[string]bool, len(cands)+1)
	out := make([]string, 0, len(cands)+1)
	for _, c := range cands {
		k := strings.ToLower(c)
		if c == "" || seen[k] || c == original {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return append(out, original)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
