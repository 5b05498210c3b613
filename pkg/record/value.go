package record

import (
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/frangdelsolar/cms-modelform/pkg/schema"
)

// ISOLayout is the canonical textual form of Date values: UTC with
// millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Value is the closed set of field values a Record carries: String, Number,
// Bool, Null, Date and Composite.
type Value interface {
	isValue()
	MarshalJSON() ([]byte, error)
}

// String is a text value.
type String string

// Number is a numeric value kept as its decimal literal.
type Number string

// Bool is a boolean value.
type Bool bool

// Null is an explicit null.
type Null struct{}

// Date is a point in time. Sanitize rewrites it to its ISOLayout text.
type Date struct {
	Time time.Time
}

// Composite carries nested data (objects or arrays) the form treats opaquely.
type Composite struct {
	Node *schema.Node
}

func (String) isValue()    {}
func (Number) isValue()    {}
func (Bool) isValue()      {}
func (Null) isValue()      {}
func (Date) isValue()      {}
func (Composite) isValue() {}

// Int builds a Number from an integer.
func Int(v int64) Number {
	return Number(strconv.FormatInt(v, 10))
}

// Float builds a Number from a float.
func Float(v float64) Number {
	return Number(strconv.FormatFloat(v, 'g', -1, 64))
}

// DateOf builds a Date value.
func DateOf(t time.Time) Date {
	return Date{Time: t}
}

// ISO returns the canonical text of the date.
func (d Date) ISO() string {
	return d.Time.UTC().Format(ISOLayout)
}

func (v String) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

func (v Number) MarshalJSON() ([]byte, error) {
	if v == "" {
		return []byte("0"), nil
	}
	return json.Marshal(json.Number(v))
}

func (v Bool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(v))
}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ISO())
}

func (v Composite) MarshalJSON() ([]byte, error) {
	if v.Node == nil {
		return []byte("null"), nil
	}
	return v.Node.MarshalJSON()
}

// Normalize returns the form-ready rendition of v: dates become their
// ISOLayout String, every other variant is returned unchanged.
func Normalize(v Value) Value {
	switch typed := v.(type) {
	case Date:
		return String(typed.ISO())
	case String, Number, Bool, Null, Composite:
		return typed
	case nil:
		return Null{}
	default:
		return typed
	}
}

// FromNode converts a decoded tree node into a Value. Scalars map onto their
// variant (YAML timestamps become Date), nested structures onto Composite.
func FromNode(node *schema.Node) Value {
	if node == nil {
		return Null{}
	}
	if node.Kind() != schema.KindScalar {
		return Composite{Node: node.Clone()}
	}
	switch typed := node.Value().(type) {
	case string:
		return String(typed)
	case bool:
		return Bool(typed)
	case json.Number:
		return Number(typed)
	case time.Time:
		return Date{Time: typed}
	case nil:
		return Null{}
	default:
		return Composite{Node: node.Clone()}
	}
}
