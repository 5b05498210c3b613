package render

import (
	"unicode/utf16"

	"github.com/frangdelsolar/cms-modelform/pkg/record"
)

const (
	// LongTextThreshold is the length above which a text value is edited in
	// a textarea. Length is measured in UTF-16 code units.
	LongTextThreshold = 60

	widgetKey      = "ui:widget"
	widgetTextarea = "textarea"
)

// UISchema maps field names to renderer directives.
type UISchema map[string]map[string]string

// UIHints suggests a textarea widget for every text field whose current value
// is longer than LongTextThreshold.
func UIHints(rec *record.Record) UISchema {
	out := make(UISchema)
	for _, key := range rec.Keys() {
		value, _ := rec.Get(key)
		text, ok := value.(record.String)
		if !ok {
			continue
		}
		if len(utf16.Encode([]rune(string(text)))) > LongTextThreshold {
			out[key] = map[string]string{widgetKey: widgetTextarea}
		}
	}
	return out
}
