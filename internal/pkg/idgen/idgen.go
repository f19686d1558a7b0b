// Package idgen produces unique time-based integer identifiers.
package idgen

import (
	"sync"
	"time"
)

// Generator hands out millisecond-timestamp ids that are strictly
// increasing even under rapid successive calls: if the clock has not
// advanced past the previous id, the next id is previous+1.
type Generator struct {
	mu   sync.Mutex
	last int64
}

// New returns a ready Generator.
func New() *Generator {
	return &Generator{}
}

// Next returns the next unique id.
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
