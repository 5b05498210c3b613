package record

import (
	"time"

	"github.com/frangdelsolar/cms-modelform/pkg/schema"
)

// Sanitize returns a new record holding every field of rec except the
// removed keys and IdentityKey, with Date values rewritten to their ISO text.
// rec is not modified; a nil rec yields an empty record.
func Sanitize(rec *Record, removed schema.KeySet) *Record {
	out := New()
	for _, key := range rec.Keys() {
		if key == IdentityKey || removed.Has(key) {
			continue
		}
		value, _ := rec.Get(key)
		out.Set(key, Normalize(cloneValue(value)))
	}
	return out
}

// ParseDates returns a copy of rec in which String values of the named
// fields that parse as RFC 3339 timestamps (or plain dates) become Date
// values. Other fields, and strings that do not parse, are copied unchanged.
func ParseDates(rec *Record, names ...string) *Record {
	out := rec.Clone()
	for _, name := range names {
		value, ok := out.Get(name)
		if !ok {
			continue
		}
		text, ok := value.(String)
		if !ok {
			continue
		}
		if parsed, ok := parseDate(string(text)); ok {
			out.Set(name, DateOf(parsed))
		}
	}
	return out
}

func parseDate(text string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
