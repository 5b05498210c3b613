package schema

import (
	"fmt"
	"slices"
	"strings"
)

// SystemFieldsNote is attached as the description of every sanitized
// definition.
const SystemFieldsNote = "SystemData fields (ID, CreatedAt, UpdatedAt, CreatedById and UpdatedById) will be automatically populated by the server."

const (
	keyProperties  = "properties"
	keyRequired    = "required"
	keyDescription = "description"
	keyFormat      = "format"
)

// Result is the output of Sanitize.
type Result struct {
	Definition  Definition
	RemovedKeys KeySet
}

// Sanitize dereferences the document's top-level "$ref", strips every
// property whose schema is itself a reference, drops the required list and
// annotates the definition with SystemFieldsNote. doc is never modified.
func Sanitize(doc *Node) (Result, error) {
	if !doc.Keyed() {
		return Result{}, fmt.Errorf("%w: document is not an object", ErrInvalidSchema)
	}
	ptr, ok := doc.Ref()
	if !ok {
		return Result{}, fmt.Errorf("%w: missing top-level %s", ErrInvalidSchema, RefKey)
	}
	path, err := ParsePointer(ptr)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	def, err := Resolve(doc, path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	if !def.Keyed() {
		return Result{}, fmt.Errorf("%w: %q resolves to a %s", ErrInvalidSchema, ptr, def.Kind())
	}

	var removed []string
	if props, ok := def.Get(keyProperties); ok && props.Keyed() {
		for _, name := range props.Keys() {
			child, _ := props.Get(name)
			if !isForeignReference(child) {
				continue
			}
			props.Delete(name)
			dropRequired(def, name)
			removed = append(removed, name)
		}
	}

	// Required-ness is not enforced by the form; the server validates presence.
	def.Delete(keyRequired)
	def.Set(keyDescription, Scalar(SystemFieldsNote))

	return Result{
		Definition:  Definition{node: def},
		RemovedKeys: NewKeySet(removed...),
	}, nil
}

func isForeignReference(node *Node) bool {
	return node.Kind() == KindReference || (node.Keyed() && node.Has(RefKey))
}

func dropRequired(def *Node, name string) {
	required, ok := def.Get(keyRequired)
	if !ok || required.Kind() != KindArray {
		return
	}
	kept := Array()
	for _, item := range required.Items() {
		if text, ok := item.Text(); ok && text == name {
			continue
		}
		kept.Append(item)
	}
	def.Set(keyRequired, kept)
}

// Definition is a resolved, renderable model schema.
type Definition struct {
	node *Node
}

// Node returns the underlying tree. Callers must not mutate it.
func (d Definition) Node() *Node {
	return d.node
}

// Properties returns the properties mapping, if present.
func (d Definition) Properties() (*Node, bool) {
	props, ok := d.node.Get(keyProperties)
	if !ok || !props.Keyed() {
		return nil, false
	}
	return props, true
}

// PropertyNames lists the property names in declaration order.
func (d Definition) PropertyNames() []string {
	props, ok := d.Properties()
	if !ok {
		return nil
	}
	return props.Keys()
}

// Property returns the schema of one property.
func (d Definition) Property(name string) (*Node, bool) {
	props, ok := d.Properties()
	if !ok {
		return nil, false
	}
	return props.Get(name)
}

// Required returns the required list and whether one is present.
func (d Definition) Required() ([]string, bool) {
	required, ok := d.node.Get(keyRequired)
	if !ok || required.Kind() != KindArray {
		return nil, false
	}
	out := make([]string, 0, required.Len())
	for _, item := range required.Items() {
		if text, ok := item.Text(); ok {
			out = append(out, text)
		}
	}
	return out, true
}

// Description returns the definition's description text.
func (d Definition) Description() string {
	desc, ok := d.node.Get(keyDescription)
	if !ok {
		return ""
	}
	text, _ := desc.Text()
	return text
}

// DateFields lists properties declared with format "date-time" or "date".
func (d Definition) DateFields() []string {
	var out []string
	for _, name := range d.PropertyNames() {
		prop, _ := d.Property(name)
		format, ok := prop.Get(keyFormat)
		if !ok {
			continue
		}
		switch text, _ := format.Text(); strings.ToLower(text) {
		case "date-time", "date":
			out = append(out, name)
		}
	}
	return out
}

// MarshalJSON encodes the definition tree.
func (d Definition) MarshalJSON() ([]byte, error) {
	return d.node.MarshalJSON()
}

var definitionContainers = []string{"$defs", "definitions"}

// Definitions lists the model names declared under "$defs" or "definitions"
// together with the pointer that selects each one.
func Definitions(doc *Node) map[string]string {
	out := make(map[string]string)
	for _, container := range definitionContainers {
		defs, ok := doc.Get(container)
		if !ok || !defs.Keyed() {
			continue
		}
		for _, name := range defs.Keys() {
			if _, exists := out[name]; exists {
				continue
			}
			out[name] = "#/" + container + "/" + name
		}
	}
	return out
}

// DefinitionNames returns the keys of Definitions in sorted order.
func DefinitionNames(doc *Node) []string {
	defs := Definitions(doc)
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// PointAt returns a copy of doc whose top-level "$ref" is ptr.
func PointAt(doc *Node, ptr string) (*Node, error) {
	if !doc.Keyed() {
		return nil, fmt.Errorf("%w: document is not an object", ErrInvalidSchema)
	}
	if strings.TrimSpace(ptr) == "" {
		return nil, fmt.Errorf("%w: pointer is empty", ErrInvalidSchema)
	}
	out := Reference(ptr)
	for _, key := range doc.Keys() {
		if key == RefKey {
			continue
		}
		child, _ := doc.Get(key)
		out.Set(key, child.Clone())
	}
	return out, nil
}
