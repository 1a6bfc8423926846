package storage

import (
	"context"
	"fmt"
	"io"
)

// Open returns the store for driver ("memory" or "sqlite") and a closer the
// caller must run on shutdown.
func Open(ctx context.Context, driver, dsn string) (Store, io.Closer, error) {
	switch driver {
	case "", "memory":
		return NewMemoryStore(), nopCloser{}, nil
	case "sqlite":
		s, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
