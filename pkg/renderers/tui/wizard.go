package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kagzat/kagzat-india-sub000/pkg/wizard"
)

const (
	choiceNext   = "Next"
	choiceBack   = "Back"
	choiceFinish = "Finish"
	choiceQuit   = "Quit"
)

// StepHook runs each time a step is shown.
type StepHook func(ctx context.Context, m *wizard.Machine) error

// WizardOption configures RunWizard.
type WizardOption func(*wizardRun)

type wizardRun struct {
	hooks []StepHook
}

// WithStepHook registers fn to run whenever a step is shown, e.g. to save a
// draft.
func WithStepHook(fn StepHook) WizardOption {
	return func(w *wizardRun) {
		if fn != nil {
			w.hooks = append(w.hooks, fn)
		}
	}
}

// RunWizard walks m in the terminal, offering Next/Back at every step and
// Finish on the last one. Choosing Quit returns ErrAborted.
func RunWizard(ctx context.Context, driver PromptDriver, m *wizard.Machine, opts ...WizardOption) error {
	if driver == nil {
		return errors.New("tui: prompt driver is nil")
	}
	if m == nil || m.Total() == 0 {
		return errors.New("tui: wizard has no steps")
	}
	run := &wizardRun{}
	for _, opt := range opts {
		if opt != nil {
			opt(run)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := driver.Info(ctx, stepSummary(m)); err != nil {
			return err
		}
		for _, hook := range run.hooks {
			if err := hook(ctx, m); err != nil {
				return err
			}
		}

		choices := stepChoices(m)
		idx, err := driver.Select(ctx, SelectConfig{Message: "Continue?", Options: choices})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(choices) {
			return fmt.Errorf("tui: selection %d out of range", idx)
		}
		switch choices[idx] {
		case choiceNext:
			m.Next()
		case choiceBack:
			m.Back()
		case choiceFinish:
			return nil
		case choiceQuit:
			return ErrAborted
		}
	}
}

func stepChoices(m *wizard.Machine) []string {
	var out []string
	if m.Done() {
		out = append(out, choiceFinish)
	} else {
		out = append(out, choiceNext)
	}
	if m.Current() > 1 {
		out = append(out, choiceBack)
	}
	return append(out, choiceQuit)
}

func stepSummary(m *wizard.Machine) string {
	step := m.Step()
	var b strings.Builder
	fmt.Fprintf(&b, "%s: step %d of %d (%.0f%%)\n", m.Flow().Title, m.Current(), m.Total(), m.Progress()*100)
	b.WriteString(step.Title)
	if len(step.Sample) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(prettyPrint(step.Sample), "\n"))
	}
	return b.String()
}
