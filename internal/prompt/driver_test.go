package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"
)

type stubDriver struct {
	pick  int
	err   error
	calls []SelectConfig
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.calls = append(s.calls, cfg)
	return s.pick, s.err
}

func TestChooseModel(t *testing.T) {
	ctx := context.Background()

	driver := &stubDriver{pick: 1}
	got, err := ChooseModel(ctx, driver, []string{"Post", "User"})
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if got != "User" {
		t.Fatalf("expected User, got %q", got)
	}
	if diff := cmp.Diff([]string{"Post", "User"}, driver.calls[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	single := &stubDriver{}
	if got, err := ChooseModel(ctx, single, []string{"Post"}); err != nil || got != "Post" {
		t.Fatalf("expected single candidate without prompt, got %q, %v", got, err)
	}
	if len(single.calls) != 0 {
		t.Fatalf("driver should not be called for a single candidate")
	}

	if _, err := ChooseModel(ctx, driver, nil); !errors.Is(err, ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
	if _, err := ChooseModel(ctx, &stubDriver{pick: -1}, []string{"a", "b"}); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, err := ChooseModel(ctx, &stubDriver{err: ErrAborted}, []string{"a", "b"}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	if !errors.Is(translateSurveyErr(terminal.InterruptErr), ErrAborted) {
		t.Fatalf("interrupt should map to ErrAborted")
	}
	other := errors.New("boom")
	if translateSurveyErr(other) != other {
		t.Fatalf("other errors must pass through")
	}
}

func TestSurveyDriver_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSurveyDriver().Select(ctx, SelectConfig{Options: []string{"a"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
