// Package wizard models the demo funnels (auto-fill, signup, onboarding) as
// linear step machines. Transitions are unguarded and clamp at both ends.
package wizard

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"gopkg.in/yaml.v3"
)

// Step is one screen of a flow. Sample holds the static demo data the
// screen displays.
type Step struct {
	Name   string         `yaml:"name" json:"name"`
	Title  string         `yaml:"title" json:"title"`
	Sample map[string]any `yaml:"sample,omitempty" json:"sample,omitempty"`
}

// Flow is an ordered, non-empty list of steps.
type Flow struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Steps []Step `yaml:"steps" json:"steps"`
}

type flowsFile struct {
	Flows []Flow `yaml:"flows"`
}

//go:embed data/flows.yaml
var embedded embed.FS

var (
	defaultOnce  sync.Once
	defaultFlows *Catalog
)

// Catalog indexes flows by id, keeping declaration order.
type Catalog struct {
	order []string
	flows map[string]Flow
}

// Default returns the bundled flows. It panics if the embedded file is
// malformed.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := LoadFS(embedded, "data/flows.yaml")
		if err != nil {
			panic(err)
		}
		defaultFlows = c
	})
	return defaultFlows
}

// LoadFS parses a flows YAML file.
func LoadFS(fsys fs.FS, name string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("wizard: read %s: %w", name, err)
	}
	var file flowsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("wizard: parse %s: %w", name, err)
	}

	c := &Catalog{flows: make(map[string]Flow, len(file.Flows))}
	for _, flow := range file.Flows {
		if flow.ID == "" {
			return nil, fmt.Errorf("wizard: %s: flow without id", name)
		}
		if _, dup := c.flows[flow.ID]; dup {
			return nil, fmt.Errorf("wizard: %s: duplicate flow %q", name, flow.ID)
		}
		if len(flow.Steps) == 0 {
			return nil, fmt.Errorf("wizard: flow %q has no steps", flow.ID)
		}
		c.order = append(c.order, flow.ID)
		c.flows[flow.ID] = flow
	}
	return c, nil
}

// IDs lists flow ids in declaration order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Flow returns the flow with the given id.
func (c *Catalog) Flow(id string) (Flow, bool) {
	flow, ok := c.flows[id]
	return flow, ok
}

// Flows returns every flow in declaration order.
func (c *Catalog) Flows() []Flow {
	out := make([]Flow, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.flows[id])
	}
	return out
}
