package library

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed data/*.yaml
var embeddedData embed.FS

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// EmbeddedFS returns the bundled catalog files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Default returns the bundled catalog. The embedded data is validated by the
// package tests, so a load failure here is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		catalog, err := LoadFS(EmbeddedFS())
		if err != nil {
			panic(err)
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}
