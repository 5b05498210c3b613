package render_test

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/frangdelsolar/cms-modelform/pkg/render"
)

func TestAggregate_GroupsByFieldInOrder(t *testing.T) {
	got := render.Aggregate([]render.ValidationFailure{
		{Field: "name", Error: "required"},
		{Field: "name", Error: "too short"},
		{Field: "age", Error: "invalid"},
	})

	want := render.ErrorMap{
		"name": {ErrorList: []string{"required", "too short"}},
		"age":  {ErrorList: []string{"invalid"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("error map mismatch (-want +got):\n%s", diff)
	}

	encoded, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	wantJSON := `{"age":{"errorList":["invalid"]},"name":{"errorList":["required","too short"]}}`
	if diff := cmp.Diff(wantJSON, string(encoded)); diff != "" {
		t.Fatalf("encoded error map mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_Empty(t *testing.T) {
	for name, input := range map[string][]render.ValidationFailure{
		"nil":   nil,
		"empty": {},
	} {
		got := render.Aggregate(input)
		if got == nil || len(got) != 0 {
			t.Fatalf("%s: expected empty map, got %#v", name, got)
		}
	}
}

func TestAggregate_SkipsMalformedEntries(t *testing.T) {
	got := render.Aggregate([]render.ValidationFailure{
		{Field: "", Error: "orphan message"},
		{Field: "title", Error: ""},
		{Field: "  ", Error: "blank field"},
		{Field: "title", Error: "required"},
		{},
		{Field: "title", Error: "required"},
	})

	want := render.ErrorMap{"title": {ErrorList: []string{"required", "required"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("error map mismatch (-want +got):\n%s", diff)
	}
	if got.Count() != 2 {
		t.Fatalf("expected 2 messages, got %d", got.Count())
	}
	if _, ok := got[""]; ok {
		t.Fatalf("blank field must not create an entry")
	}
}

func TestErrorMap_Accessors(t *testing.T) {
	m := render.Aggregate([]render.ValidationFailure{
		{Field: "b", Error: "one"},
		{Field: "a", Error: "two"},
	})
	if diff := cmp.Diff([]string{"a", "b"}, m.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	messages := m.Messages("b")
	messages[0] = "mutated"
	if m.Messages("b")[0] != "one" {
		t.Fatalf("Messages must return a copy")
	}
	if m.Messages("missing") != nil {
		t.Fatalf("expected nil for missing field")
	}

	clone := m.Clone()
	clone["a"].ErrorList[0] = "changed"
	if m.Messages("a")[0] != "two" {
		t.Fatalf("Clone must not share slices")
	}
}

func TestDecodeFailures(t *testing.T) {
	failures, err := render.DecodeFailures([]byte(`[
		{"Field":"name","Error":"required"},
		null,
		{"Field":"email"},
		{"Field":"email","Error":"invalid"}
	]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := render.ErrorMap{
		"name":  {ErrorList: []string{"required"}},
		"email": {ErrorList: []string{"invalid"}},
	}
	if diff := cmp.Diff(want, render.Aggregate(failures)); diff != "" {
		t.Fatalf("error map mismatch (-want +got):\n%s", diff)
	}

	if failures, err := render.DecodeFailures(nil); err != nil || failures != nil {
		t.Fatalf("expected no failures for empty payload, got %v, %v", failures, err)
	}

	_, err = render.DecodeFailures([]byte(`{"Field":"name"}`))
	var decodeErr *render.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}
