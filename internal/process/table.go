package process

import "sync"

// DefaultCapacity is the number of rows kept when no capacity is configured.
const DefaultCapacity = 20

// Table holds the records of the most recent completed scan.
// Contents are only ever swapped as a whole: a published slice is never
// written again, so readers always see one complete snapshot.
type Table struct {
	mu       sync.RWMutex
	rows     []Record
	capacity int
}

func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{capacity: capacity}
}

// Replace publishes records as the new table contents, clipped to capacity.
// The caller keeps ownership of records.
func (t *Table) Replace(records []Record) {
	n := len(records)
	if n > t.capacity {
		n = t.capacity
	}
	rows := make([]Record, n)
	copy(rows, records[:n])

	t.mu.Lock()
	t.rows = rows
	t.mu.Unlock()
}

// Snapshot returns a copy of the current contents.
func (t *Table) Snapshot() []Record {
	t.mu.RLock()
	rows := t.rows
	t.mu.RUnlock()

	out := make([]Record, len(rows))
	copy(out, rows)
	return out
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table) Cap() int { return t.capacity }
