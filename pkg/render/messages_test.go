package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/microcosm-cc/bluemonday"

	"github.com/frangdelsolar/cms-modelform/pkg/render"
)

func TestSanitizeMessages(t *testing.T) {
	input := render.ErrorMap{
		"title": {ErrorList: []string{"<b>required</b>", "plain"}},
		"body":  {ErrorList: []string{"<script>alert(1)</script>"}},
	}

	got := render.SanitizeMessages(input, nil)

	want := render.ErrorMap{
		"title": {ErrorList: []string{"required", "plain"}},
		"body":  {ErrorList: []string{"&lt;script&gt;alert(1)&lt;/script&gt;"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitized messages mismatch (-want +got):\n%s", diff)
	}
	if input["title"].ErrorList[0] != "<b>required</b>" {
		t.Fatalf("input map was modified")
	}
}

func TestSanitizeMessages_CustomPolicy(t *testing.T) {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("em")

	got := render.SanitizeMessages(render.ErrorMap{
		"title": {ErrorList: []string{"<em>required</em> <u>now</u>"}},
	}, policy)

	if diff := cmp.Diff([]string{"<em>required</em> now"}, got.Messages("title")); diff != "" {
		t.Fatalf("sanitized messages mismatch (-want +got):\n%s", diff)
	}
}
