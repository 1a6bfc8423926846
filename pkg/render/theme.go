package render

import (
	"fmt"
	"maps"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the manifest StaticThemes falls back to.
const DefaultThemeName = "kagzat"

// StaticThemes is an in-memory theme.ThemeSelector over registered
// manifests.
type StaticThemes struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

// NewStaticThemes registers the given manifests. The first one becomes the
// fallback for empty or unknown names.
func NewStaticThemes(manifests ...*theme.Manifest) (*StaticThemes, error) {
	s := &StaticThemes{manifests: map[string]*theme.Manifest{}}
	for _, m := range manifests {
		if err := s.Register(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest by name.
func (s *StaticThemes) Register(m *theme.Manifest) error {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[m.Name]; exists {
		return fmt.Errorf("render: theme %q already registered", m.Name)
	}
	s.manifests[m.Name] = m
	if s.fallback == "" {
		s.fallback = m.Name
	}
	return nil
}

// Select implements theme.ThemeSelector. Unknown variants resolve to the
// base manifest.
func (s *StaticThemes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		name = s.fallback
	}
	m, ok := s.manifests[name]
	if !ok {
		if m, ok = s.manifests[s.fallback]; !ok {
			return nil, fmt.Errorf("render: theme %q not found", name)
		}
	}
	if _, ok := m.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: m.Name, Variant: variant, Manifest: m}, nil
}

// DefaultThemes returns the built-in light/dark palette.
func DefaultThemes() *StaticThemes {
	s, err := NewStaticThemes(&theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-primary": "#1d4ed8",
			"color-surface": "#ffffff",
			"color-text":    "#111827",
			"color-muted":   "#6b7280",
			"color-danger":  "#b91c1c",
			"color-badge":   "#e0e7ff",
			"radius":        "0.5rem",
			"font-family":   "Inter, system-ui, sans-serif",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-surface": "#111827",
					"color-text":    "#f9fafb",
					"color-muted":   "#9ca3af",
					"color-badge":   "#312e81",
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// ResolveTheme selects name/variant and flattens the manifest into a
// renderer config: variant tokens override base tokens, every token becomes
// a "--<token>" CSS variable, and AssetURL joins the asset prefix.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme: %w", err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("render: theme %q has no manifest", name)
	}
	m := selection.Manifest

	tokens := maps.Clone(m.Tokens)
	if tokens == nil {
		tokens = map[string]string{}
	}
	partials := maps.Clone(m.Templates)
	if partials == nil {
		partials = map[string]string{}
	}
	prefix := m.Assets.Prefix
	files := maps.Clone(m.Assets.Files)
	if files == nil {
		files = map[string]string{}
	}

	if v, ok := m.Variants[selection.Variant]; ok {
		maps.Copy(tokens, v.Tokens)
		maps.Copy(partials, v.Templates)
		maps.Copy(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}, nil
}

// StyleAttribute renders CSS variables as an inline style value in a
// stable order.
func StyleAttribute(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = key + ": " + cfg.CSSVars[key]
	}
	return strings.Join(parts, "; ")
}
