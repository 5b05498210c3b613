package schema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// MarshalJSON encodes the tree, keeping object keys in insertion order and
// emitting "$ref" first on reference nodes.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.kind {
	case KindArray:
		buf.WriteByte('[')
		for idx, item := range n.items {
			if idx > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case KindObject, KindReference:
		buf.WriteByte('{')
		first := true
		if n.kind == KindReference {
			if err := writeMember(buf, RefKey, Scalar(n.ref)); err != nil {
				return err
			}
			first = false
		}
		for _, key := range n.keys {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeMember(buf, key, n.fields[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		encoded, err := json.Marshal(n.value)
		if err != nil {
			return err
		}
		buf.Write(encoded)
		return nil
	}
}

func writeMember(buf *bytes.Buffer, key string, child *Node) error {
	encodedKey, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(encodedKey)
	buf.WriteByte(':')
	return child.encode(buf)
}
