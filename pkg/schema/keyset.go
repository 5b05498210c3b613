package schema

import (
	"slices"

	json "github.com/goccy/go-json"
)

// KeySet is an immutable set of property names. Names are reported in the
// order they were added.
type KeySet struct {
	order []string
	index map[string]struct{}
}

// NewKeySet builds a set from names, ignoring duplicates.
func NewKeySet(names ...string) KeySet {
	set := KeySet{index: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if _, exists := set.index[name]; exists {
			continue
		}
		set.index[name] = struct{}{}
		set.order = append(set.order, name)
	}
	return set
}

// Has reports whether name is in the set.
func (s KeySet) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of names.
func (s KeySet) Len() int {
	return len(s.order)
}

// Names returns a copy of the names in insertion order.
func (s KeySet) Names() []string {
	return slices.Clone(s.order)
}

// MarshalJSON encodes the set as an array of names.
func (s KeySet) MarshalJSON() ([]byte, error) {
	if s.order == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.order)
}
