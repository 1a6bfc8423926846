package library

import (
	"sort"
	"strings"
)

// EmptySearchMode controls what an empty query returns.
type EmptySearchMode string

const (
	EmptySearchNone EmptySearchMode = "none"
	EmptySearchTop  EmptySearchMode = "top"
)

// SearchOptions bounds and scopes a library search.
type SearchOptions struct {
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	// Category restricts matches to a single category when set.
	Category Category
}

// DefaultSearchOptions mirrors the limits used by the library panel.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		DefaultLimit:    50,
		MaxLimit:        200,
		EmptySearchMode: EmptySearchNone,
	}
}

// Match is a single search hit.
type Match struct {
	Category  Category `json:"category"`
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	MinLength int      `json:"minLength"`
	MaxLength int      `json:"maxLength"`
}

// Search finds fields whose identifier or label contains query, case
// insensitively. Prefix matches rank first, then category order, then the
// order fields are declared in.
func (c *Catalog) Search(query string, limit int, opts SearchOptions) []Match {
	limit = clampLimit(limit, opts)
	if limit == 0 || c == nil {
		return nil
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && opts.EmptySearchMode != EmptySearchTop {
		return nil
	}

	type ranked struct {
		match    Match
		isPrefix bool
		order    int
	}
	var hits []ranked
	for _, category := range c.order {
		if opts.Category != "" && category != opts.Category {
			continue
		}
		for _, def := range c.fields[category] {
			name := strings.ToLower(def.Name)
			label := Humanize(def.Name)
			if query != "" && !strings.Contains(name, query) && !strings.Contains(label, query) {
				continue
			}
			hits = append(hits, ranked{
				match: Match{
					Category:  category,
					Name:      def.Name,
					Label:     Title(def.Name),
					MinLength: def.MinLength,
					MaxLength: def.MaxLength,
				},
				isPrefix: query != "" && (strings.HasPrefix(name, query) || strings.HasPrefix(label, query)),
				order:    len(hits),
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].isPrefix != hits[j].isPrefix {
			return hits[i].isPrefix
		}
		return hits[i].order < hits[j].order
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Match, 0, len(hits))
	for _, hit := range hits {
		out = append(out, hit.match)
	}
	return out
}

func clampLimit(limit int, opts SearchOptions) int {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
