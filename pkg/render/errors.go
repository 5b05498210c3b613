package render

import (
	"slices"
	"strings"

	json "github.com/goccy/go-json"
)

// ValidationFailure is one field-level message emitted by a validator.
type ValidationFailure struct {
	Field string `json:"Field"`
	Error string `json:"Error"`
}

// Valid reports whether the failure names a field and carries a message.
func (f ValidationFailure) Valid() bool {
	return strings.TrimSpace(f.Field) != "" && strings.TrimSpace(f.Error) != ""
}

// FieldErrors holds the messages reported for one field, in emission order.
type FieldErrors struct {
	ErrorList []string `json:"errorList"`
}

// ErrorMap groups messages by field name. Fields without failures are absent.
type ErrorMap map[string]FieldErrors

// Aggregate groups failures by field, appending messages in the order they
// were emitted. Entries without a field or message are skipped.
func Aggregate(failures []ValidationFailure) ErrorMap {
	out := make(ErrorMap)
	for _, failure := range failures {
		if !failure.Valid() {
			continue
		}
		entry := out[failure.Field]
		entry.ErrorList = append(entry.ErrorList, failure.Error)
		out[failure.Field] = entry
	}
	return out
}

// Messages returns the messages recorded for field.
func (m ErrorMap) Messages(field string) []string {
	entry, ok := m[field]
	if !ok {
		return nil
	}
	return slices.Clone(entry.ErrorList)
}

// Fields lists the fields with failures in sorted order.
func (m ErrorMap) Fields() []string {
	fields := make([]string, 0, len(m))
	for field := range m {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

// Count returns the total number of messages.
func (m ErrorMap) Count() int {
	total := 0
	for _, entry := range m {
		total += len(entry.ErrorList)
	}
	return total
}

// Clone returns a copy that shares no slices with m.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for field, entry := range m {
		out[field] = FieldErrors{ErrorList: slices.Clone(entry.ErrorList)}
	}
	return out
}

// DecodeFailures parses a JSON array of {"Field": ..., "Error": ...} entries.
// Null entries decode to zero failures, which Aggregate skips.
func DecodeFailures(raw []byte) ([]ValidationFailure, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}
	var failures []ValidationFailure
	if err := json.Unmarshal(raw, &failures); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return failures, nil
}

// DecodeError reports a failure payload that is not a JSON array of entries.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "render: decode failures: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
