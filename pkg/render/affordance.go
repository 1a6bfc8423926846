package render

import (
	"sort"
	"strings"
	"sync"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
)

// Affordance names the control a renderer draws for an element.
type Affordance string

const (
	AffordanceTextInput        Affordance = "text-input"
	AffordanceTextarea         Affordance = "textarea"
	AffordanceEmailInput       Affordance = "email-input"
	AffordancePhoneInput       Affordance = "phone-input"
	AffordanceDateInput        Affordance = "date-input"
	AffordanceNumberInput      Affordance = "number-input"
	AffordanceDropdown         Affordance = "dropdown"
	AffordanceRadioGroup       Affordance = "radio-group"
	AffordanceCheckboxGroup    Affordance = "checkbox-group"
	AffordanceDropzone         Affordance = "dropzone"
	AffordanceDocumentDropzone Affordance = "document-dropzone"
	AffordanceSectionDivider   Affordance = "section-divider"
	AffordancePredefinedInput  Affordance = "predefined-input"
)

var kindAffordances = map[builder.Kind]Affordance{
	builder.KindSection:         AffordanceSectionDivider,
	builder.KindText:            AffordanceTextInput,
	builder.KindTextarea:        AffordanceTextarea,
	builder.KindEmail:           AffordanceEmailInput,
	builder.KindPhone:           AffordancePhoneInput,
	builder.KindDate:            AffordanceDateInput,
	builder.KindNumber:          AffordanceNumberInput,
	builder.KindSelect:          AffordanceDropdown,
	builder.KindRadio:           AffordanceRadioGroup,
	builder.KindCheckbox:        AffordanceCheckboxGroup,
	builder.KindFile:            AffordanceDropzone,
	builder.KindPredefinedField: AffordancePredefinedInput,
	builder.KindDocumentUpload:  AffordanceDocumentDropzone,
}

// AffordanceFor returns the built-in control for kind. Unknown kinds fall
// back to a plain text input.
func AffordanceFor(kind builder.Kind) Affordance {
	if a, ok := kindAffordances[kind]; ok {
		return a
	}
	return AffordanceTextInput
}

// Matcher decides whether an affordance should handle the element.
type Matcher func(el builder.Element) bool

type rule struct {
	name     Affordance
	priority int
	match    Matcher
	order    int
}

// Affordances picks controls for elements. Higher priority wins; ties fall
// back to registration order. The built-in kind mapping registers at
// priority 0, so any positive priority overrides it.
type Affordances struct {
	mu    sync.RWMutex
	rules []rule
}

// NewAffordances returns a registry with the built-in kind mapping.
func NewAffordances() *Affordances {
	reg := &Affordances{}
	kinds := make([]builder.Kind, 0, len(kindAffordances))
	for kind := range kindAffordances {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, kind := range kinds {
		kind := kind
		reg.Register(kindAffordances[kind], 0, func(el builder.Element) bool { return el.Kind == kind })
	}
	return reg
}

// Register adds a matcher. Empty names and nil matchers are ignored.
func (r *Affordances) Register(name Affordance, priority int, matcher Matcher) {
	if r == nil || matcher == nil || strings.TrimSpace(string(name)) == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     name,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the control for el. A nil registry uses AffordanceFor.
func (r *Affordances) Resolve(el builder.Element) Affordance {
	if r == nil {
		return AffordanceFor(el.Kind)
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(el) {
			return entry.name
		}
	}
	return AffordanceFor(el.Kind)
}
