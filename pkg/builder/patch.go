package builder

import "slices"

// Patch carries partial changes for Update. Nil fields are left untouched;
// a non-nil empty slice clears the list.
type Patch struct {
	Label         *string  `json:"label,omitempty"`
	Required      *bool    `json:"required,omitempty"`
	Placeholder   *string  `json:"placeholder,omitempty"`
	HelpText      *string  `json:"helpText,omitempty"`
	Options       []string `json:"options,omitempty"`
	MinLength     *int     `json:"minLength,omitempty"`
	MaxLength     *int     `json:"maxLength,omitempty"`
	DocumentTypes []string `json:"documentTypes,omitempty"`
}

// Ptr is a convenience for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// Apply returns el with the patch merged in. ID and Kind never change.
func (p Patch) Apply(el Element) Element {
	out := el.Clone()
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Required != nil {
		out.Required = *p.Required
	}
	if p.Placeholder != nil {
		out.Placeholder = *p.Placeholder
	}
	if p.HelpText != nil {
		out.HelpText = *p.HelpText
	}
	if p.Options != nil {
		out.Options = append([]string{}, p.Options...)
	}
	if p.MinLength != nil {
		out.MinLength = *p.MinLength
	}
	if p.MaxLength != nil {
		out.MaxLength = *p.MaxLength
	}
	if p.DocumentTypes != nil {
		out.DocumentTypes = append([]string{}, p.DocumentTypes...)
	}
	return out
}

func elementsEqual(a, b Element) bool {
	return a.ID == b.ID &&
		a.Kind == b.Kind &&
		a.Label == b.Label &&
		a.Required == b.Required &&
		a.Placeholder == b.Placeholder &&
		a.HelpText == b.HelpText &&
		slices.Equal(a.Options, b.Options) &&
		a.FieldName == b.FieldName &&
		a.Category == b.Category &&
		a.MinLength == b.MinLength &&
		a.MaxLength == b.MaxLength &&
		slices.Equal(a.DocumentTypes, b.DocumentTypes)
}
