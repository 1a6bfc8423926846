package library

import (
	"fmt"
	"unicode/utf8"
)

// Bound names the violated side of a length range.
type Bound string

const (
	BoundMin Bound = "min"
	BoundMax Bound = "max"
)

// LengthError reports a value outside a field's length range.
type LengthError struct {
	Category Category
	Field    string
	Bound    Bound
	Limit    int
	Length   int
}

func (e *LengthError) Error() string {
	label := Title(e.Field)
	if e.Bound == BoundMin {
		return fmt.Sprintf("%s must be at least %d characters", label, e.Limit)
	}
	return fmt.Sprintf("%s must be at most %d characters", label, e.Limit)
}

// Validate checks value against the length bounds of the named field. It
// returns nil when the field is unknown; only length is checked, never
// format. Length is counted in characters, not bytes.
func (c *Catalog) Validate(category Category, name, value string) error {
	def, ok := c.Field(category, name)
	if !ok {
		return nil
	}
	return def.Check(category, value)
}

// Check validates value against the definition's bounds.
func (d FieldDefinition) Check(category Category, value string) error {
	length := utf8.RuneCountInString(value)
	switch {
	case length < d.MinLength:
		return &LengthError{Category: category, Field: d.Name, Bound: BoundMin, Limit: d.MinLength, Length: length}
	case length > d.MaxLength:
		return &LengthError{Category: category, Field: d.Name, Bound: BoundMax, Limit: d.MaxLength, Length: length}
	default:
		return nil
	}
}

// Validate checks value against the bundled catalog.
func Validate(category Category, name, value string) error {
	return Default().Validate(category, name, value)
}
