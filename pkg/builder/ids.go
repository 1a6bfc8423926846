package builder

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces element ids. The editor re-draws when a generated id
// collides with an element already on the canvas.
type IDGenerator interface {
	Next() string
}

// SequentialIDs yields "<prefix>1", "<prefix>2", ...
type SequentialIDs struct {
	Prefix string
	n      atomic.Uint64
}

// NewSequentialIDs returns a generator using prefix (default "el-").
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "el-"
	}
	return &SequentialIDs{Prefix: prefix}
}

func (g *SequentialIDs) Next() string {
	return g.Prefix + strconv.FormatUint(g.n.Add(1), 10)
}

// UUIDs yields random UUIDv4 strings.
type UUIDs struct{}

func (UUIDs) Next() string {
	return uuid.NewString()
}
