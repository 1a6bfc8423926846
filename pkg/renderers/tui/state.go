package tui

import (
	"fmt"
	"strings"
)

// State tracks collected answers keyed by dotted paths. Predefined fields
// land under "<Category>.<field>" so the result nests the same way the
// entries export does; every other element uses its id.
type State struct {
	values map[string]any
}

// NewState returns an empty state.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

// Values returns the current value map (mutable).
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// GetValue resolves a dotted path into the values map.
func (s *State) GetValue(path string) (any, bool) {
	if s == nil || path == "" {
		return nil, false
	}
	var current any = s.values
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = node[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

// SetValue writes a value using a dotted path, creating intermediate maps
// as needed.
func (s *State) SetValue(path string, value any) error {
	if s == nil {
		return fmt.Errorf("tui: state is nil")
	}
	if path == "" {
		return fmt.Errorf("tui: empty path")
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	segments := strings.Split(path, ".")
	node := s.values
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			if _, taken := node[segment]; taken {
				return fmt.Errorf("tui: %q is not a group in path %q", segment, path)
			}
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
	return nil
}
