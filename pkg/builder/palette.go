package builder

// PaletteEntry is one draggable item of the generic component palette.
type PaletteEntry struct {
	Kind Kind   `json:"type"`
	Name string `json:"name"`
}

var palette = []PaletteEntry{
	{Kind: KindSection, Name: "Section"},
	{Kind: KindText, Name: "Text Input"},
	{Kind: KindTextarea, Name: "Text Area"},
	{Kind: KindEmail, Name: "Email"},
	{Kind: KindPhone, Name: "Phone Number"},
	{Kind: KindDate, Name: "Date"},
	{Kind: KindNumber, Name: "Number"},
	{Kind: KindSelect, Name: "Dropdown"},
	{Kind: KindRadio, Name: "Radio Group"},
	{Kind: KindCheckbox, Name: "Checkboxes"},
	{Kind: KindFile, Name: "File Upload"},
}

// Palette returns the generic component palette in display order.
func Palette() []PaletteEntry {
	return append([]PaletteEntry(nil), palette...)
}

// PaletteName returns the display name of a palette kind. Kinds that only
// come from the libraries fall back to the kind identifier.
func PaletteName(kind Kind) string {
	for _, entry := range palette {
		if entry.Kind == kind {
			return entry.Name
		}
	}
	return string(kind)
}

// defaultOptions seeds new choice elements.
func defaultOptions() []string {
	return []string{"Option 1", "Option 2"}
}
