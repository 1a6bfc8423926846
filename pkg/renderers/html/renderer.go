// Package html renders builder documents as HTML: the editable canvas with
// drag handles and delete buttons, or the read-only preview form.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/render"
	rendertemplate "github.com/Kagzat/kagzat-india-sub000/pkg/render/template"
	"github.com/Kagzat/kagzat-india-sub000/pkg/render/template/pongo"
)

// Name is the registry name of the renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS  fs.FS
	templates   rendertemplate.TemplateRenderer
	affordances *render.Affordances
	themes      theme.ThemeSelector
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// form.html and element.html.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a custom engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithAffordances overrides the control chosen per element.
func WithAffordances(reg *render.Affordances) Option {
	return func(cfg *config) {
		cfg.affordances = reg
	}
}

// WithThemeSelector resolves RenderOptions.ThemeName into CSS variables.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.themes = selector
	}
}

type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	affordances *render.Affordances
	themes      theme.ThemeSelector
}

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.affordances == nil {
		cfg.affordances = render.NewAffordances()
	}

	engine := cfg.templates
	if engine == nil {
		e, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithExtension(".html"), pongo.WithSetName("kagzat-html"))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure templates: %w", err)
		}
		engine = e
	}

	return &Renderer{templates: engine, affordances: cfg.affordances, themes: cfg.themes}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, doc builder.Document, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	cfg := opts.Theme
	if cfg == nil && r.themes != nil {
		resolved, err := render.ResolveTheme(r.themes, opts.ThemeName, opts.ThemeVariant)
		if err != nil {
			return nil, fmt.Errorf("html renderer: %w", err)
		}
		cfg = resolved
	}

	result, err := r.templates.RenderTemplate("form", r.view(doc, opts, cfg))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) view(doc builder.Document, opts render.RenderOptions, cfg *theme.RendererConfig) map[string]any {
	mode := opts.EffectiveMode()
	elements := make([]any, 0, len(doc.Elements))
	for _, el := range doc.Elements {
		elements = append(elements, r.elementView(el, opts))
	}

	view := map[string]any{
		"mode":        string(mode),
		"title":       sanitize(doc.Title),
		"elements":    elements,
		"disabled":    mode == render.ModeEdit,
		"form_errors": toAny(opts.FormErrors),
		"theme":       "",
		"style":       "",
	}
	if cfg != nil {
		view["theme"] = cfg.Theme
		view["style"] = render.StyleAttribute(cfg)
	}
	return view
}

func (r *Renderer) elementView(el builder.Element, opts render.RenderOptions) map[string]any {
	affordance := r.affordances.Resolve(el)
	value := opts.Values[el.ID]

	options := make([]any, 0, len(el.Options))
	for _, opt := range el.Options {
		options = append(options, map[string]any{
			"label":   sanitize(opt),
			"checked": optionChecked(affordance, opt, value),
		})
	}

	return map[string]any{
		"id":          el.ID,
		"control_id":  "kz-" + el.ID,
		"kind":        string(el.Kind),
		"affordance":  string(affordance),
		"input_type":  inputType(affordance),
		"label":       sanitize(el.Label),
		"required":    el.Required,
		"placeholder": sanitize(el.Placeholder),
		"help":        sanitize(el.HelpText),
		"options":     options,
		"badge":       render.CategoryBadge(el),
		"hint":        render.CharacterHint(el),
		"dropzone":    render.DocumentDropzoneLabel(el.DocumentTypes),
		"min_length":  el.MinLength,
		"max_length":  el.MaxLength,
		"value":       value,
		"errors":      toAny(opts.Errors[el.ID]),
		"selected":    opts.Selected != "" && opts.Selected == el.ID,
	}
}

func inputType(a render.Affordance) string {
	switch a {
	case render.AffordanceEmailInput:
		return "email"
	case render.AffordancePhoneInput:
		return "tel"
	case render.AffordanceDateInput:
		return "date"
	case render.AffordanceNumberInput:
		return "number"
	default:
		return "text"
	}
}

func optionChecked(a render.Affordance, option, value string) bool {
	if value == "" {
		return false
	}
	if a == render.AffordanceCheckboxGroup {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return slices.Contains(parts, option)
	}
	return option == value
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitize strips markup from author-supplied text. The result is already
// HTML-escaped, so templates emit it with the safe filter.
func sanitize(raw string) string {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(policy.Sanitize(raw))
}
