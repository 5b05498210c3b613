package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Decode parses a JSON or YAML payload into a node tree. Payloads whose first
// significant byte opens a JSON object or array are decoded as JSON; anything
// else goes through the YAML decoder. Key order is preserved in both cases.
func Decode(raw []byte) (*Node, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("schema: payload is empty")
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return DecodeJSON(trimmed)
	}
	return DecodeYAML(trimmed)
}

// DecodeJSON parses a JSON payload into a node tree.
func DecodeJSON(raw []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	node, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("schema: decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("schema: decode json: trailing data after document")
	}
	return node, nil
}

func decodeJSONValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch typed := tok.(type) {
	case json.Delim:
		switch typed {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(typed))
		}
	case string, bool, json.Number, nil:
		return Scalar(typed), nil
	case float64:
		return Scalar(json.Number(strconv.FormatFloat(typed, 'g', -1, 64))), nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

func decodeJSONObject(dec *json.Decoder) (*Node, error) {
	pending := newMapping()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %T", tok)
		}
		child, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		pending.add(key, child)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pending.build(), nil
}

func decodeJSONArray(dec *json.Decoder) (*Node, error) {
	out := Array()
	for dec.More() {
		child, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		out.Append(child)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeYAML parses a YAML payload into a node tree. Timestamps that YAML
// resolves natively (unquoted dates) become time.Time scalars.
func DecodeYAML(raw []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	if doc.Kind == 0 {
		return nil, errors.New("schema: decode yaml: empty document")
	}
	node, err := fromYAML(&doc, 0)
	if err != nil {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	return node, nil
}

const maxYAMLDepth = 512

func fromYAML(node *yaml.Node, depth int) (*Node, error) {
	if depth > maxYAMLDepth {
		return nil, errors.New("document nesting too deep")
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Scalar(nil), nil
		}
		return fromYAML(node.Content[0], depth+1)
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, fmt.Errorf("line %d: dangling alias", node.Line)
		}
		return fromYAML(node.Alias, depth+1)
	case yaml.MappingNode:
		pending := newMapping()
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			keyNode, valueNode := node.Content[idx], node.Content[idx+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			child, err := fromYAML(valueNode, depth+1)
			if err != nil {
				return nil, err
			}
			pending.add(keyNode.Value, child)
		}
		return pending.build(), nil
	case yaml.SequenceNode:
		out := Array()
		for _, item := range node.Content {
			child, err := fromYAML(item, depth+1)
			if err != nil {
				return nil, err
			}
			out.Append(child)
		}
		return out, nil
	case yaml.ScalarNode:
		return yamlScalar(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", node.Line, node.Kind)
	}
}

func yamlScalar(node *yaml.Node) (*Node, error) {
	switch node.ShortTag() {
	case "!!null":
		return Scalar(nil), nil
	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return nil, err
		}
		return Scalar(value), nil
	case "!!int", "!!float":
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, err
		}
		return Scalar(numberFrom(value, node.Value)), nil
	case "!!timestamp":
		var value time.Time
		if err := node.Decode(&value); err != nil {
			return nil, err
		}
		return Scalar(value), nil
	default:
		return Scalar(node.Value), nil
	}
}

func numberFrom(value any, literal string) json.Number {
	switch typed := value.(type) {
	case int:
		return json.Number(strconv.Itoa(typed))
	case int64:
		return json.Number(strconv.FormatInt(typed, 10))
	case uint64:
		return json.Number(strconv.FormatUint(typed, 10))
	case float64:
		return json.Number(strconv.FormatFloat(typed, 'g', -1, 64))
	default:
		return json.Number(literal)
	}
}

// mapping collects key/value pairs before deciding whether they form a
// reference node (a string "$ref" is present) or a plain object.
type mapping struct {
	keys   []string
	values map[string]*Node
}

func newMapping() *mapping {
	return &mapping{values: make(map[string]*Node)}
}

func (m *mapping) add(key string, child *Node) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = child
}

func (m *mapping) build() *Node {
	out := Object()
	if refNode, ok := m.values[RefKey]; ok {
		if ptr, ok := refNode.Text(); ok {
			out = Reference(ptr)
		}
	}
	for _, key := range m.keys {
		if key == RefKey && out.kind == KindReference {
			continue
		}
		out.Set(key, m.values[key])
	}
	return out
}
