package library

// Category groups related fields and documents.
type Category string

const (
	CategoryIdentity      Category = "Identity"
	CategoryAddress       Category = "Address"
	CategoryEducation     Category = "Education"
	CategoryWork          Category = "Work"
	CategoryFinances      Category = "Finances"
	CategoryProperty      Category = "Property"
	CategoryMiscellaneous Category = "Miscellaneous"
)

// FieldDefinition describes a predefined field and its length bounds.
type FieldDefinition struct {
	Name      string `json:"name" yaml:"name"`
	MinLength int    `json:"minLength" yaml:"minLength"`
	MaxLength int    `json:"maxLength" yaml:"maxLength"`
}

// Catalog is an immutable field and document library. Construct it with
// LoadFS or Default; the zero value is an empty catalog.
type Catalog struct {
	order     []Category
	fields    map[Category][]FieldDefinition
	index     map[Category]map[string]int
	documents map[Category][]string
}

// Categories returns the categories in declaration order.
func (c *Catalog) Categories() []Category {
	if c == nil {
		return nil
	}
	return append([]Category(nil), c.order...)
}

// HasCategory reports whether the catalog declares category.
func (c *Catalog) HasCategory(category Category) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[category]
	return ok
}

// Field looks up a definition by category and field name.
func (c *Catalog) Field(category Category, name string) (FieldDefinition, bool) {
	if c == nil {
		return FieldDefinition{}, false
	}
	pos, ok := c.index[category][name]
	if !ok {
		return FieldDefinition{}, false
	}
	return c.fields[category][pos], true
}

// Fields returns the definitions of a category in declaration order.
func (c *Catalog) Fields(category Category) []FieldDefinition {
	if c == nil {
		return nil
	}
	return append([]FieldDefinition(nil), c.fields[category]...)
}

// DocumentTypes returns the accepted document identifiers for category.
func (c *Catalog) DocumentTypes(category Category) []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.documents[category]...)
}
