package prompt

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// InputConfig describes a single line question.
type InputConfig struct {
	Message  string
	Help     string
	Default  string
	Required bool
}

// SelectConfig describes a pick-one question. Options are display titles.
type SelectConfig struct {
	Message  string
	Help     string
	Options  []string
	Default  int
	PageSize int
}

// Driver abstracts the interactive terminal so Fill can be scripted in tests.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Password(ctx context.Context, cfg InputConfig) (string, error)
	// Select returns the index of the chosen option.
	Select(ctx context.Context, cfg SelectConfig) (int, error)
}

// NewSurveyDriver returns a Driver backed by survey.
func NewSurveyDriver() Driver {
	return &surveyDriver{}
}

type surveyDriver struct{}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, askOptions(cfg)...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Password{
		Message: cfg.Message,
		Help:    cfg.Help,
	}
	if err := survey.AskOne(prompt, &out, askOptions(cfg)...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
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
	if cfg.Default >= 0 && cfg.Default < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.Default]
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return -1, translateSurveyErr(err)
	}
	return indexOf(cfg.Options, out), nil
}

func askOptions(cfg InputConfig) []survey.AskOpt {
	if !cfg.Required {
		return nil
	}
	return []survey.AskOpt{survey.WithValidator(survey.Required)}
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
