package render

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
)

// Renderer converts a builder document into bytes (HTML, terminal output).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc builder.Document, options RenderOptions) ([]byte, error)
}

// ErrUnknownRenderer is returned by Registry.Get for unregistered names.
var ErrUnknownRenderer = errors.New("render: unknown renderer")

// Registry holds renderers by name in registration order. The first one
// registered answers the empty name.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]Renderer{}}
}

// Register adds renderer under its Name(). Names must be non-empty and
// unique.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil || renderer.Name() == "" {
		return errors.New("render: renderer needs a name")
	}
	name := renderer.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byName[name] = renderer
	r.order = append(r.order, name)
	return nil
}

// Get returns the named renderer, or the default for "".
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" && len(r.order) > 0 {
		name = r.order[0]
	}
	if renderer, ok := r.byName[name]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownRenderer, name)
}

// List returns the registered names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}
