package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var (
	// ErrAborted is returned when the user interrupts a prompt.
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoChoices is returned when a selection has nothing to offer.
	ErrNoChoices = errors.New("prompt: nothing to choose from")
)

// SelectConfig configures a single-choice prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// Driver abstracts the terminal so callers can be tested without one.
type Driver interface {
	Select(ctx context.Context, cfg SelectConfig) (int, error)
}

// NewSurveyDriver returns a Driver backed by survey.
func NewSurveyDriver() Driver {
	return surveyDriver{}
}

type surveyDriver struct{}

func (surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out string
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return 0, translateSurveyErr(err)
	}
	return indexOf(cfg.Options, out), nil
}

// ChooseModel asks the user to pick one of names. A single candidate is
// returned without prompting.
func ChooseModel(ctx context.Context, driver Driver, names []string) (string, error) {
	switch len(names) {
	case 0:
		return "", ErrNoChoices
	case 1:
		return names[0], nil
	}
	if driver == nil {
		return "", errors.New("prompt: driver is nil")
	}
	idx, err := driver.Select(ctx, SelectConfig{
		Message:  "Model to edit",
		Options:  names,
		Help:     "The form is built from the selected model definition.",
		PageSize: 15,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(names) {
		return "", fmt.Errorf("prompt: selection %d out of range", idx)
	}
	return names[idx], nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
