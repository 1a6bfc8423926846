// Package entries backs the category-accordion data entry screen: values
// typed against the predefined field library, their length validation and
// the JSON download of what was entered.
package entries

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

// ExportFilename is the download name of an export.
const ExportFilename = "form-data.json"

// Values maps category -> field name -> entered text.
type Values map[library.Category]map[string]string

// Set stores value, allocating the category map on first use.
func (v Values) Set(category library.Category, field, value string) {
	if v[category] == nil {
		v[category] = map[string]string{}
	}
	v[category][field] = value
}

// Get returns the stored value or "".
func (v Values) Get(category library.Category, field string) string {
	return v[category][field]
}

// Key returns the error-map key of a field.
func Key(category library.Category, field string) string {
	return string(category) + "." + field
}

// SplitKey reverses Key.
func SplitKey(key string) (library.Category, string, bool) {
	category, field, ok := strings.Cut(key, ".")
	if !ok || category == "" || field == "" {
		return "", "", false
	}
	return library.Category(category), field, true
}

// Validate length-checks every non-empty value against lib and returns the
// messages keyed by Key. Empty values are never reported, required or not.
// A nil lib uses the bundled catalog.
func Validate(lib *library.Catalog, values Values) map[string]string {
	if lib == nil {
		lib = library.Default()
	}
	errs := map[string]string{}
	for category, fields := range values {
		for name, value := range fields {
			if value == "" {
				continue
			}
			if err := lib.Validate(category, name, value); err != nil {
				errs[Key(category, name)] = err.Error()
			}
		}
	}
	return errs
}

// CanSave reports whether the error map allows saving.
func CanSave(errs map[string]string) bool {
	return len(errs) == 0
}

// SortedKeys returns the error keys in a stable order for display.
func SortedKeys(errs map[string]string) []string {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Export encodes values as an indented JSON document.
func Export(values Values) ([]byte, error) {
	if values == nil {
		values = Values{}
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("entries: encode export: %w", err)
	}
	return data, nil
}

// Decode parses an export back into Values.
func Decode(data []byte) (Values, error) {
	var values Values
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("entries: decode values: %w", err)
	}
	if values == nil {
		values = Values{}
	}
	return values, nil
}

// WriteDownload writes the export as a file attachment.
func WriteDownload(w http.ResponseWriter, values Values) error {
	data, err := Export(values)
	if err != nil {
		return err
	}
	header := w.Header()
	header.Set("Content-Type", "application/json")
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(data)
	return err
}
