package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/frangdelsolar/cms-modelform/pkg/schema"
)

// Severity grades a SchemaIssue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// SchemaIssue describes one problem found in a schema document.
type SchemaIssue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

// SchemaValidationResult captures whether a schema can drive a model form.
type SchemaValidationResult struct {
	Valid       bool          `json:"valid"`
	Model       string        `json:"model,omitempty"`
	Fields      []string      `json:"fields,omitempty"`
	RemovedKeys []string      `json:"removedKeys,omitempty"`
	Issues      []SchemaIssue `json:"issues,omitempty"`
}

// ValidateSchema decodes raw and runs it through schema.Sanitize. Fatal
// problems make the result invalid; required entries that name undeclared
// properties are reported as warnings.
func ValidateSchema(raw []byte) SchemaValidationResult {
	doc, err := schema.Decode(raw)
	if err != nil {
		return invalid(SchemaIssue{Message: trimPrefixes(err.Error())})
	}
	return ValidateTree(doc)
}

// ValidateTree is ValidateSchema for an already decoded document.
func ValidateTree(doc *schema.Node) SchemaValidationResult {
	ptr, _ := doc.Ref()

	sanitized, err := schema.Sanitize(doc)
	if err != nil {
		return invalid(issueFromError(ptr, err))
	}

	result := SchemaValidationResult{
		Valid:       true,
		Model:       ptr,
		Fields:      sanitized.Definition.PropertyNames(),
		RemovedKeys: sanitized.RemovedKeys.Names(),
	}
	result.Issues = append(result.Issues, undeclaredRequired(doc, ptr)...)
	return result
}

func invalid(issue SchemaIssue) SchemaValidationResult {
	issue.Severity = SeverityError
	return SchemaValidationResult{Valid: false, Issues: []SchemaIssue{issue}}
}

func issueFromError(ptr string, err error) SchemaIssue {
	issue := SchemaIssue{Path: ptr, Message: trimPrefixes(err.Error())}
	if errors.Is(err, schema.ErrNotFound) {
		issue.Field = fieldPathFromPointer(ptr)
	}
	return issue
}

func undeclaredRequired(doc *schema.Node, ptr string) []SchemaIssue {
	path, err := schema.ParsePointer(ptr)
	if err != nil {
		return nil
	}
	def, err := schema.Resolve(doc, path)
	if err != nil {
		return nil
	}
	required, ok := def.Get("required")
	if !ok || required.Kind() != schema.KindArray {
		return nil
	}
	props, _ := def.Get("properties")

	var issues []SchemaIssue
	for idx, item := range required.Items() {
		name, ok := item.Text()
		if !ok || props.Has(name) {
			continue
		}
		issues = append(issues, SchemaIssue{
			Severity: SeverityWarning,
			Path:     fmt.Sprintf("%s/required/%d", ptr, idx),
			Field:    name,
			Message:  fmt.Sprintf("required field %q is not a declared property", name),
		})
	}
	return issues
}

func trimPrefixes(msg string) string {
	msg = strings.TrimSpace(msg)
	for _, prefix := range []string{"session: ", "schema: invalid schema: ", "schema resolver: ", "schema: "} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	return strings.TrimSpace(msg)
}

// fieldPathFromPointer turns "#/$defs/Post/properties/title" into
// "Post.title", skipping schema container keywords.
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(pointer), "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	var out []string
	for _, segment := range strings.Split(trimmed, "/") {
		switch segment {
		case "", "properties", "$defs", "definitions", "components", "schemas":
			continue
		default:
			out = append(out, segment)
		}
	}
	return strings.Join(out, ".")
}
