package render

import theme "github.com/goliatone/go-theme"

// Mode switches between the editable canvas and the read-only preview.
type Mode string

const (
	ModeEdit    Mode = "edit"
	ModePreview Mode = "preview"
)

// RenderOptions carry per-request data renderers use without touching the
// document.
type RenderOptions struct {
	// Mode defaults to edit.
	Mode Mode
	// Values pre-populates controls, keyed by element id.
	Values map[string]string
	// Errors surfaces validation feedback keyed by element id. MapErrors
	// turns entry-style keys into ids.
	Errors map[string][]string
	// FormErrors are messages not tied to one element.
	FormErrors []string
	// Selected highlights an element on the edit canvas.
	Selected string

	ThemeName    string
	ThemeVariant string
	// Theme is the resolved configuration. Callers usually leave it nil and
	// let ResolveTheme fill it from ThemeName/ThemeVariant.
	Theme *theme.RendererConfig
}

// EffectiveMode returns the mode with the default applied.
func (o RenderOptions) EffectiveMode() Mode {
	if o.Mode == ModePreview {
		return ModePreview
	}
	return ModeEdit
}
