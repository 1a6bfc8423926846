package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or chose to
	// quit a wizard.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoOptions is returned when a choice element has nothing to pick.
	ErrNoOptions = errors.New("tui: choice element has no options")
)
