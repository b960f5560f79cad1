package wikiparse

import (
	"encoding/json"
	"fmt"
)

// Record is the output of one extraction: a discriminated, warning-annotated
// field set. A record is always produced, never nil, even when every
// extraction step fails; in the worst case it holds only the type, the name,
// and a non-empty warnings list.
type Record struct {
	Type     string
	Name     string
	Warnings []string
	Fields   map[string]any
}

// MarshalJSON flattens the type-specific fields alongside the fixed keys, so
// consumers see one object: {"record_type", "name", "warnings", ...fields}.
func (r *Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		m[k] = v
	}
	m["record_type"] = r.Type
	m["name"] = r.Name
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	m["warnings"] = warnings
	return json.Marshal(m)
}

// Field returns a type-specific field by key.
func (r *Record) Field(key string) (any, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// ParseError reports a catastrophic parse failure: the page content could
// not be processed at all. Per-field failures never raise this; they become
// record warnings instead.
type ParseError struct {
	Title  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse page %q: %s", e.Title, e.Reason)
}

// builder accumulates fields and warnings for one record and finalizes once.
type builder struct {
	rec *Record
}

func newBuilder(t PageType, name string) *builder {
	return &builder{rec: &Record{
		Type:     string(t),
		Name:     name,
		Warnings: []string{},
		Fields:   make(map[string]any),
	}}
}

func (b *builder) set(key string, v any) {
	b.rec.Fields[key] = v
}

func (b *builder) warnf(format string, args ...any) {
	b.rec.Warnings = append(b.rec.Warnings, fmt.Sprintf(format, args...))
}

// step runs one isolated extraction step. A failure or panic becomes a
// warning and the remaining steps still run.
func (b *builder) step(desc string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			b.warnf("%s: %v", desc, r)
		}
	}()
	if err := fn(); err != nil {
		b.warnf("%s: %v", desc, err)
	}
}

func (b *builder) record() *Record {
	return b.rec
}
