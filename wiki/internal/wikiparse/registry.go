// Package wikiparse turns a fetched wiki page into a typed, warning-annotated
// record. A classifier picks the page type from the title and category tags;
// a registry of specialized parsers (plus a generic fallback) does the
// extraction. Parsers never fail: per-field and per-item problems degrade to
// warnings on the record.
package wikiparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parser extracts a typed record from a page document. Implementations must
// always return a record, never nil.
type Parser interface {
	Parse(doc *goquery.Document, title string) *Record
}

var registry = map[PageType]Parser{
	TypeCrop:        cropParser{},
	TypeNPC:         npcParser{},
	TypeFish:        fishParser{},
	TypeRecipe:      recipeParser{},
	TypeBundle:      bundleParser{},
	TypeSkill:       skillParser{},
	TypeQuest:       questParser{},
	TypeAchievement: achievementParser{},
	TypeMonster:     monsterParser{},
	TypeAnimal:      animalParser{},
	TypeArtifacts:   collectionParser{pageType: TypeArtifacts},
	TypeMinerals:    collectionParser{pageType: TypeMinerals},
	TypeGeneric:     genericParser{},
}

// ParserFor returns the parser registered for t, falling back to the
// generic-item parser for unknown tags.
func ParserFor(t PageType) Parser {
	if p, ok := registry[t]; ok {
		return p
	}
	return registry[TypeGeneric]
}

// RegisteredTypes returns all page type tags with a registered parser.
func RegisteredTypes() []PageType {
	types := make([]PageType, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	return types
}

// Extract classifies the page and dispatches to the matching parser. It
// cannot fail short of unreadable input: the fallback path always resolves
// to the generic-item parser and every parser is total.
func Extract(html, title string, categories []string) (*Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Title: title, Reason: err.Error()}
	}
	t := Classify(title, categories)
	return safeParse(ParserFor(t), doc, title, t), nil
}

// safeParse is the whole-function floor of the graceful-degradation policy:
// a panicking parser still yields a record skeleton, and a record with
// nothing extracted always carries at least one warning.
func safeParse(p Parser, doc *goquery.Document, title string, t PageType) (rec *Record) {
	defer func() {
		if r := recover(); r != nil {
			b := newBuilder(t, title)
			b.warnf("parser failed: %v", r)
			rec = b.record()
		}
	}()
	rec = p.Parse(doc, title)
	if len(rec.Fields) == 0 && len(rec.Warnings) == 0 {
		rec.Warnings = append(rec.Warnings, "no structured fields extracted")
	}
	return rec
}
