package fieldsearch

import (
	"net/http"

	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

const (
	defaultRoutePath = "/api/fields"
	defaultLimit     = 50
	defaultMaxLimit  = 200
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath       string
	SearchParam     string
	LimitParam      string
	CategoryParam   string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode library.EmptySearchMode
	Guard           GuardFunc

	// Library defaults to library.Default().
	Library *library.Catalog
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:       defaultRoutePath,
		SearchParam:     "q",
		LimitParam:      "limit",
		CategoryParam:   "category",
		DefaultLimit:    defaultLimit,
		MaxLimit:        defaultMaxLimit,
		EmptySearchMode: library.EmptySearchNone,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaultMaxLimit
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = library.EmptySearchNone
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.CategoryParam == "" {
		opts.CategoryParam = "category"
	}
	return opts
}

func (o Options) searchOptions(category library.Category) library.SearchOptions {
	return library.SearchOptions{
		DefaultLimit:    o.DefaultLimit,
		MaxLimit:        o.MaxLimit,
		EmptySearchMode: o.EmptySearchMode,
		Category:        category,
	}
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) { o.RoutePath = path }
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) { o.SearchParam = name }
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) { o.LimitParam = name }
}

func WithCategoryParam(name string) OptionFn {
	return func(o *Options) { o.CategoryParam = name }
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) { o.DefaultLimit = limit }
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) { o.MaxLimit = limit }
}

func WithEmptySearchMode(mode library.EmptySearchMode) OptionFn {
	return func(o *Options) { o.EmptySearchMode = mode }
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

func WithLibrary(lib *library.Catalog) OptionFn {
	return func(o *Options) { o.Library = lib }
}
