package enumerate

import (
	"fmt"
	"math"
	"math/big"
	"sync"

	"github.com/aretw0/busybeaver/pkg/domain"
)

// Cursor walks the enumeration one definition at a time, like an odometer.
// Advancing costs O(cells); nothing but the current digits is kept.
//
// Next may be called from several goroutines: each call hands out a distinct
// index exactly once.
type Cursor struct {
	e *Enumerator

	mu     sync.Mutex
	digits []int
	index  uint64
	done   bool
}

// NewCursor returns a cursor positioned at start.
func (e *Enumerator) NewCursor(start uint64) (*Cursor, error) {
	if new(big.Int).SetUint64(start).Cmp(e.size) >= 0 {
		return nil, fmt.Errorf("%w: %d (cardinality %s)", ErrIndexOutOfRange, start, e.size)
	}

	digits := make([]int, len(e.cells))
	rest := start
	radix := uint64(e.radix)
	for i := len(digits) - 1; i >= 0 && rest > 0; i-- {
		digits[i] = int(rest % radix)
		rest /= radix
	}

	return &Cursor{e: e, digits: digits, index: start}, nil
}

// Next returns the definition under the cursor and advances it.
// ok is false once the enumeration is exhausted.
func (c *Cursor) Next() (index uint64, def *domain.Definition, ok bool) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return 0, nil, false
	}
	index = c.index
	digits := append([]int(nil), c.digits...)
	c.advance()
	c.mu.Unlock()

	// Building the table happens outside the lock.
	return index, c.e.build(digits), true
}

// Done reports whether the cursor is exhausted.
func (c *Cursor) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *Cursor) advance() {
	if c.index == math.MaxUint64 {
		c.done = true
		return
	}
	for i := len(c.digits) - 1; i >= 0; i-- {
		c.digits[i]++
		if c.digits[i] < c.e.radix {
			c.index++
			return
		}
		c.digits[i] = 0
	}
	c.done = true
}
