package library

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Categories []categoryFile `json:"categories" yaml:"categories"`
}

type categoryFile struct {
	Name      string            `json:"name" yaml:"name"`
	Fields    []FieldDefinition `json:"fields" yaml:"fields"`
	Documents []string          `json:"documents" yaml:"documents"`
}

// LoadFS walks fsys and merges every JSON/YAML catalog file it finds. Files
// are visited in lexical order so category order is deterministic. A
// category may only be declared once across all files.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	catalog := newCatalog()
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("library: read %s: %w", path, err)
		}
		file, err := parseCatalog(data, path)
		if err != nil {
			return err
		}
		for _, raw := range file.Categories {
			if err := catalog.add(raw, path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

func newCatalog() *Catalog {
	return &Catalog{
		fields:    make(map[Category][]FieldDefinition),
		index:     make(map[Category]map[string]int),
		documents: make(map[Category][]string),
	}
}

func (c *Catalog) add(raw categoryFile, source string) error {
	name := Category(strings.TrimSpace(raw.Name))
	if name == "" {
		return fmt.Errorf("library: file %s declares a category without a name", source)
	}
	if _, exists := c.index[name]; exists {
		return fmt.Errorf("library: duplicate category %q (file %s)", name, source)
	}

	fields := make([]FieldDefinition, 0, len(raw.Fields))
	index := make(map[string]int, len(raw.Fields))
	for pos, def := range raw.Fields {
		def.Name = strings.TrimSpace(def.Name)
		if def.Name == "" {
			return fmt.Errorf("library: category %q (file %s) has an unnamed field at index %d", name, source, pos)
		}
		if _, exists := index[def.Name]; exists {
			return fmt.Errorf("library: category %q (file %s) declares field %q twice", name, source, def.Name)
		}
		if def.MinLength < 0 || def.MaxLength < def.MinLength {
			return fmt.Errorf("library: field %s.%s (file %s) has invalid bounds [%d, %d]", name, def.Name, source, def.MinLength, def.MaxLength)
		}
		index[def.Name] = len(fields)
		fields = append(fields, def)
	}

	documents := make([]string, 0, len(raw.Documents))
	for pos, doc := range raw.Documents {
		doc = strings.TrimSpace(doc)
		if doc == "" {
			return fmt.Errorf("library: category %q (file %s) has an empty document type at index %d", name, source, pos)
		}
		documents = append(documents, doc)
	}

	c.order = append(c.order, name)
	c.fields[name] = fields
	c.index[name] = index
	c.documents[name] = documents
	return nil
}

func parseCatalog(data []byte, source string) (catalogFile, error) {
	var file catalogFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return catalogFile{}, fmt.Errorf("library: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &file); err == nil {
		return file, nil
	}
	file = catalogFile{}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return catalogFile{}, fmt.Errorf("library: parse %s: %w", source, err)
	}
	return file, nil
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
