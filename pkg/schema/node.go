package schema

import (
	"slices"
	"strconv"
)

// RefKey is the mapping key that marks a reference node.
const RefKey = "$ref"

// Kind enumerates the node variants a schema tree is built from.
type Kind uint8

const (
	KindScalar Kind = iota
	KindArray
	KindObject
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindReference:
		return "reference"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is one element of a schema document. Objects and references are keyed
// and remember key insertion order; a reference additionally carries the
// pointer string found under "$ref". Scalars hold string, bool, nil,
// json.Number (goccy/go-json) or time.Time values.
type Node struct {
	kind   Kind
	value  any
	ref    string
	items  []*Node
	keys   []string
	fields map[string]*Node
}

// Scalar wraps a leaf value.
func Scalar(value any) *Node {
	return &Node{kind: KindScalar, value: value}
}

// Array builds an array node from the supplied items.
func Array(items ...*Node) *Node {
	return &Node{kind: KindArray, items: append([]*Node(nil), items...)}
}

// Object builds an empty object node.
func Object() *Node {
	return &Node{kind: KindObject, fields: make(map[string]*Node)}
}

// Reference builds a reference node pointing at ptr.
func Reference(ptr string) *Node {
	return &Node{kind: KindReference, ref: ptr, fields: make(map[string]*Node)}
}

// Kind reports the node variant. A nil node reports KindScalar.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindScalar
	}
	return n.kind
}

// Keyed reports whether the node can be walked by key.
func (n *Node) Keyed() bool {
	return n != nil && (n.kind == KindObject || n.kind == KindReference)
}

// Ref returns the pointer of a reference node.
func (n *Node) Ref() (string, bool) {
	if n == nil || n.kind != KindReference {
		return "", false
	}
	return n.ref, true
}

// Value returns the scalar payload, or nil for non-scalar nodes.
func (n *Node) Value() any {
	if n == nil || n.kind != KindScalar {
		return nil
	}
	return n.value
}

// Text returns the scalar payload when it is a string.
func (n *Node) Text() (string, bool) {
	str, ok := n.Value().(string)
	return str, ok
}

// Keys returns the keys of a keyed node in insertion order. The "$ref" of a
// reference node is not listed.
func (n *Node) Keys() []string {
	if !n.Keyed() {
		return nil
	}
	return slices.Clone(n.keys)
}

// Len returns the number of keys or items.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindArray:
		return len(n.items)
	case KindObject, KindReference:
		return len(n.keys)
	default:
		return 0
	}
}

// Get returns the child stored under key. On a reference node the "$ref" key
// yields the pointer as a string scalar.
func (n *Node) Get(key string) (*Node, bool) {
	if !n.Keyed() {
		return nil, false
	}
	if n.kind == KindReference && key == RefKey {
		return Scalar(n.ref), true
	}
	child, ok := n.fields[key]
	return child, ok
}

// Has reports whether key is present on a keyed node.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Index returns the array item at idx.
func (n *Node) Index(idx int) (*Node, bool) {
	if n.Kind() != KindArray || idx < 0 || idx >= len(n.items) {
		return nil, false
	}
	return n.items[idx], true
}

// Items returns the array items.
func (n *Node) Items() []*Node {
	if n.Kind() != KindArray {
		return nil
	}
	return slices.Clone(n.items)
}

// Set stores child under key. Existing keys keep their position. Set on a
// non-keyed node is a no-op.
func (n *Node) Set(key string, child *Node) {
	if !n.Keyed() {
		return
	}
	if n.kind == KindReference && key == RefKey {
		if ptr, ok := child.Text(); ok {
			n.ref = ptr
		}
		return
	}
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
}

// Delete removes key and reports whether it was present.
func (n *Node) Delete(key string) bool {
	if !n.Keyed() {
		return false
	}
	if _, ok := n.fields[key]; !ok {
		return false
	}
	delete(n.fields, key)
	n.keys = slices.DeleteFunc(n.keys, func(existing string) bool {
		return existing == key
	})
	return true
}

// Append adds items to an array node.
func (n *Node) Append(items ...*Node) {
	if n.Kind() != KindArray {
		return
	}
	n.items = append(n.items, items...)
}

// Clone returns a deep copy that shares no mutable state with n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{kind: n.kind, value: n.value, ref: n.ref}
	if n.items != nil {
		out.items = make([]*Node, len(n.items))
		for idx, item := range n.items {
			out.items[idx] = item.Clone()
		}
	}
	if n.fields != nil {
		out.keys = slices.Clone(n.keys)
		out.fields = make(map[string]*Node, len(n.fields))
		for key, child := range n.fields {
			out.fields[key] = child.Clone()
		}
	}
	return out
}
