package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound reports a path that does not lead to a traversable node.
	ErrNotFound = errors.New("schema resolver: path not found")
	// ErrInvalidSchema reports a schema that cannot be turned into a form
	// definition.
	ErrInvalidSchema = errors.New("schema: invalid schema")
)

// ParsePointer splits a reference pointer such as "#/defs/Widget" on "/" and
// drops the leading sentinel segment. Segments are used verbatim.
func ParsePointer(ptr string) ([]string, error) {
	parts := strings.Split(ptr, "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: pointer %q has no path", ErrNotFound, ptr)
	}
	return parts[1:], nil
}

// Resolve walks doc one key at a time and returns a deep copy of the node at
// path. Objects and reference nodes are walked by key, arrays by decimal
// index. The target itself must be an object, reference or array.
func Resolve(doc *Node, path []string) (*Node, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", ErrNotFound)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: path is empty", ErrNotFound)
	}

	current := doc
	for idx, segment := range path {
		next, ok := step(current, segment)
		if !ok {
			return nil, fmt.Errorf("%w: segment %q (%d of %d) in %q", ErrNotFound, segment, idx+1, len(path), strings.Join(path, "/"))
		}
		current = next
	}

	if current.Kind() == KindScalar {
		return nil, fmt.Errorf("%w: %q is a %s, not a schema", ErrNotFound, strings.Join(path, "/"), current.Kind())
	}
	return current.Clone(), nil
}

func step(node *Node, segment string) (*Node, bool) {
	switch node.Kind() {
	case KindObject, KindReference:
		return node.Get(segment)
	case KindArray:
		idx, err := strconv.Atoi(segment)
		if err != nil {
			return nil, false
		}
		return node.Index(idx)
	default:
		return nil, false
	}
}
