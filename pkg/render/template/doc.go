// Package template defines the engine seam renderers load and execute
// templates through. The pongo subpackage provides the default engine.
package template
