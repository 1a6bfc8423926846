package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/entries"
	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
	"github.com/Kagzat/kagzat-india-sub000/pkg/render"
)

const dateLayout = "2006-01-02"

// Renderer implements render.Renderer for terminal-driven sessions: it
// fills the document in element order and returns the collected answers.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	library           *library.Catalog
	submitTransformer SubmitTransformer
	theme             Theme
	logger            *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output,
// bundled library).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		library:      library.Default(),
		theme:        Theme{SectionPrefix: "== ", ErrorPrefix: "! "},
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every element of doc and serializes the answers.
// opts.Values seeds defaults and opts.Errors is echoed before the matching
// prompt; both are keyed by element id.
func (r *Renderer) Render(ctx context.Context, doc builder.Document, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if doc.Title != "" {
		if err := r.driver.Info(ctx, doc.Title); err != nil {
			return nil, err
		}
	}
	for _, msg := range opts.FormErrors {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return nil, err
		}
	}

	state := NewState()
	for _, el := range doc.Elements {
		for _, msg := range opts.Errors[el.ID] {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
				return nil, err
			}
		}
		if err := r.promptElement(ctx, el, opts.Values[el.ID], state); err != nil {
			return nil, err
		}
	}

	values := state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) promptElement(ctx context.Context, el builder.Element, prefill string, state *State) error {
	switch el.Kind {
	case builder.KindSection:
		msg := r.theme.SectionPrefix + el.Label
		if el.HelpText != "" {
			msg += "\n" + el.HelpText
		}
		return r.driver.Info(ctx, msg)
	case builder.KindSelect, builder.KindRadio:
		return r.promptChoice(ctx, el, prefill, state)
	case builder.KindCheckbox:
		return r.promptMulti(ctx, el, prefill, state)
	case builder.KindTextarea:
		return r.promptTextArea(ctx, el, prefill, state)
	default:
		return r.promptInput(ctx, el, prefill, state)
	}
}

func (r *Renderer) promptInput(ctx context.Context, el builder.Element, prefill string, state *State) error {
	check := r.checker(el)
	cfg := InputConfig{
		Message:   promptLabel(el),
		Default:   prefill,
		Help:      promptHelp(el),
		Validator: check,
	}
	for {
		response, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		response = strings.TrimSpace(response)
		if err := check(response); err != nil {
			if ierr := r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error()); ierr != nil {
				return ierr
			}
			continue
		}
		if response == "" {
			r.logger.Debug("optional element skipped", zap.String("id", el.ID))
			return nil
		}
		var value any = response
		if el.Kind == builder.KindNumber {
			value = json.Number(response)
		}
		return state.SetValue(answerPath(el), value)
	}
}

func (r *Renderer) promptTextArea(ctx context.Context, el builder.Element, prefill string, state *State) error {
	check := r.checker(el)
	for {
		response, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: promptLabel(el),
			Default: prefill,
			Help:    promptHelp(el),
		})
		if err != nil {
			return err
		}
		if err := check(strings.TrimSpace(response)); err != nil {
			if ierr := r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error()); ierr != nil {
				return ierr
			}
			continue
		}
		if strings.TrimSpace(response) == "" {
			return nil
		}
		return state.SetValue(answerPath(el), response)
	}
}

func (r *Renderer) promptChoice(ctx context.Context, el builder.Element, prefill string, state *State) error {
	if len(el.Options) == 0 {
		return fmt.Errorf("%w: %s", ErrNoOptions, el.ID)
	}
	options := el.Options
	skip := -1
	if !el.Required {
		skip = len(options)
		options = append(append([]string{}, options...), "(skip)")
	}
	def := max(slices.Index(el.Options, prefill), 0)
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      promptLabel(el),
		Options:      options,
		DefaultIndex: def,
		Help:         el.HelpText,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: selection %d out of range for %s", idx, el.ID)
	}
	if idx == skip {
		return nil
	}
	return state.SetValue(answerPath(el), options[idx])
}

func (r *Renderer) promptMulti(ctx context.Context, el builder.Element, prefill string, state *State) error {
	if len(el.Options) == 0 {
		return fmt.Errorf("%w: %s", ErrNoOptions, el.ID)
	}
	var defaults []int
	for _, v := range splitCSV(prefill) {
		if i := slices.Index(el.Options, v); i >= 0 {
			defaults = append(defaults, i)
		}
	}
	for {
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  promptLabel(el),
			Options:  el.Options,
			Defaults: defaults,
			Help:     el.HelpText,
		})
		if err != nil {
			return err
		}
		var chosen []any
		for _, i := range picked {
			if i >= 0 && i < len(el.Options) {
				chosen = append(chosen, el.Options[i])
			}
		}
		if len(chosen) == 0 {
			if el.Required {
				if ierr := r.driver.Info(ctx, r.theme.ErrorPrefix+requiredMessage(el)); ierr != nil {
					return ierr
				}
				continue
			}
			return nil
		}
		return state.SetValue(answerPath(el), chosen)
	}
}

// checker returns the validation applied to a trimmed answer. Empty
// answers are only rejected for required elements.
func (r *Renderer) checker(el builder.Element) func(string) error {
	return func(value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			if el.Required {
				return errors.New(requiredMessage(el))
			}
			return nil
		}
		switch el.Kind {
		case builder.KindEmail:
			if _, err := mail.ParseAddress(value); err != nil {
				return fmt.Errorf("%s must be an email address", labelOf(el))
			}
		case builder.KindNumber:
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return fmt.Errorf("%s must be a number", labelOf(el))
			}
		case builder.KindDate:
			if _, err := time.Parse(dateLayout, value); err != nil {
				return fmt.Errorf("%s must be a date (YYYY-MM-DD)", labelOf(el))
			}
		case builder.KindPredefinedField:
			return r.checkPredefined(el, value)
		}
		return nil
	}
}

func (r *Renderer) checkPredefined(el builder.Element, value string) error {
	if _, known := r.library.Field(el.Category, el.FieldName); known {
		return r.library.Validate(el.Category, el.FieldName, value)
	}
	if el.MaxLength == 0 {
		return nil
	}
	def := library.FieldDefinition{Name: el.FieldName, MinLength: el.MinLength, MaxLength: el.MaxLength}
	return def.Check(el.Category, value)
}

// answerPath nests predefined fields by category; other elements are keyed
// by id.
func answerPath(el builder.Element) string {
	if el.Kind == builder.KindPredefinedField && el.Category != "" && el.FieldName != "" {
		return entries.Key(el.Category, el.FieldName)
	}
	return el.ID
}

func labelOf(el builder.Element) string {
	if el.Label != "" {
		return el.Label
	}
	if el.FieldName != "" {
		return library.Title(el.FieldName)
	}
	return el.ID
}

func promptLabel(el builder.Element) string {
	label := labelOf(el)
	if el.Required {
		label += " *"
	}
	return label
}

func promptHelp(el builder.Element) string {
	var parts []string
	if el.HelpText != "" {
		parts = append(parts, el.HelpText)
	}
	if el.Placeholder != "" {
		parts = append(parts, "e.g. "+el.Placeholder)
	}
	if badge := render.CategoryBadge(el); badge != "" {
		parts = append(parts, "["+badge+"]")
	}
	if hint := render.CharacterHint(el); hint != "" {
		parts = append(parts, hint)
	}
	switch el.Kind {
	case builder.KindDocumentUpload:
		parts = append(parts, "path to "+render.DocumentDropzoneLabel(el.DocumentTypes))
	case builder.KindFile:
		parts = append(parts, "path to a file")
	}
	return strings.Join(parts, " ")
}

func requiredMessage(el builder.Element) string {
	return labelOf(el) + " is required"
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.MarshalIndent(values, "", "  ")
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix+"[]", fmt.Sprint(val))
		}
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		parts := make([]string, len(v))
		for i, val := range v {
			parts[i] = fmt.Sprint(val)
		}
		fmt.Fprintf(b, "%s=%s\n", prefix, strings.Join(parts, ", "))
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}
