package record

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/frangdelsolar/cms-modelform/pkg/schema"
)

// IdentityKey names the system-assigned identity field.
const IdentityKey = "id"

// Record is one instance of a model: field names mapped to values, in
// insertion order. The zero value is an empty record ready for use.
type Record struct {
	keys   []string
	values map[string]Value
}

// New builds an empty record.
func New() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set stores v under key. Existing keys keep their position.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if v == nil {
		v = Null{}
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone returns a copy whose field list can be changed independently.
func (r *Record) Clone() *Record {
	out := New()
	for _, key := range r.Keys() {
		out.Set(key, cloneValue(r.values[key]))
	}
	return out
}

func cloneValue(v Value) Value {
	if composite, ok := v.(Composite); ok {
		return Composite{Node: composite.Node.Clone()}
	}
	return v
}

// MarshalJSON encodes the record as an object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, key := range r.Keys() {
		if idx > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encoded, err := r.values[key].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("record: encode %q: %w", key, err)
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode parses a JSON or YAML object into a record.
func Decode(raw []byte) (*Record, error) {
	node, err := schema.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	return FromTree(node)
}

// FromTree converts a decoded object node into a record.
func FromTree(node *schema.Node) (*Record, error) {
	if node == nil {
		return nil, errors.New("record: tree is nil")
	}
	if !node.Keyed() {
		return nil, fmt.Errorf("record: expected an object, got %s", node.Kind())
	}
	out := New()
	if ptr, ok := node.Ref(); ok {
		out.Set(schema.RefKey, String(ptr))
	}
	for _, key := range node.Keys() {
		child, _ := node.Get(key)
		out.Set(key, FromNode(child))
	}
	return out, nil
}
