package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const widgetDoc = `{
  "$ref": "#/defs/Widget",
  "defs": {
    "Widget": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "owner": {"$ref": "#/defs/User"}
      },
      "required": ["name", "owner"]
    },
    "User": {
      "type": "object",
      "properties": {"email": {"type": "string"}}
    },
    "tags": [{"type": "string"}, "plain"]
  }
}`

func mustDecode(t *testing.T, raw string) *Node {
	t.Helper()
	node, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return node
}

func mustJSON(t *testing.T, node *Node) string {
	t.Helper()
	out, err := node.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(out)
}

func TestParsePointer(t *testing.T) {
	cases := []struct {
		ptr  string
		want []string
		err  bool
	}{
		{ptr: "#/defs/Widget", want: []string{"defs", "Widget"}},
		{ptr: "#/$defs/Widget", want: []string{"$defs", "Widget"}},
		{ptr: "#/a~1b", want: []string{"a~1b"}},
		{ptr: "#", err: true},
		{ptr: "", err: true},
	}
	for _, tc := range cases {
		got, err := ParsePointer(tc.ptr)
		if tc.err {
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("ParsePointer(%q): expected ErrNotFound, got %v", tc.ptr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePointer(%q): %v", tc.ptr, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("ParsePointer(%q) mismatch (-want +got):\n%s", tc.ptr, diff)
		}
	}
}

func TestResolve_ReturnsSubtree(t *testing.T) {
	doc := mustDecode(t, widgetDoc)

	got, err := Resolve(doc, []string{"defs", "User"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := `{"type":"object","properties":{"email":{"type":"string"}}}`
	if diff := cmp.Diff(want, mustJSON(t, got)); diff != "" {
		t.Fatalf("resolved subtree mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_WalksArraysByIndex(t *testing.T) {
	doc := mustDecode(t, widgetDoc)

	got, err := Resolve(doc, []string{"defs", "tags", "0"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(`{"type":"string"}`, mustJSON(t, got)); diff != "" {
		t.Fatalf("array item mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_NotFound(t *testing.T) {
	doc := mustDecode(t, widgetDoc)

	cases := map[string][]string{
		"nil path":           nil,
		"empty path":         {},
		"missing key":        {"defs", "Gadget"},
		"through scalar":     {"defs", "Widget", "type", "x"},
		"scalar target":      {"defs", "Widget", "type"},
		"array out of range": {"defs", "tags", "7"},
		"array non index":    {"defs", "tags", "first"},
		"array scalar item":  {"defs", "tags", "1"},
		"ref pointer value":  {"$ref"},
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Resolve(doc, path); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}

	if _, err := Resolve(nil, []string{"defs"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("nil document: expected ErrNotFound, got %v", err)
	}
}

func TestResolve_IsolatesCopy(t *testing.T) {
	doc := mustDecode(t, widgetDoc)
	before := mustJSON(t, doc)

	got, err := Resolve(doc, []string{"defs", "Widget"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	props, _ := got.Get("properties")
	props.Delete("owner")
	props.Set("extra", Scalar("x"))
	name, _ := props.Get("name")
	name.Set("type", Scalar("number"))
	got.Delete("required")

	if diff := cmp.Diff(before, mustJSON(t, doc)); diff != "" {
		t.Fatalf("source document changed (-before +after):\n%s", diff)
	}
}
