// Package ledger abstracts the remote row store the PO system uses as its
// database: an ordered append log with an optional keyed update.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrRowNotFound is returned by Update when the row handle is stale.
var ErrRowNotFound = errors.New("ledger row not found")

// Ledger is the narrow interface the pipeline depends on. Row handles are
// the store's own 1-based row positions, header row included.
type Ledger interface {
	// Append adds a row after the last written row.
	Append(ctx context.Context, row []interface{}) error

	// Find locates the row whose identifier column equals key. The
	// returned handle is only valid until the next mutation.
	Find(ctx context.Context, key string) (handle int, found bool, err error)

	// Update overwrites the row at the given handle.
	Update(ctx context.Context, handle int, row []interface{}) error

	// ReadAll returns every data row in storage order, header excluded.
	ReadAll(ctx context.Context) ([][]string, error)

	// IDColumn returns the identifier column in storage order, header
	// excluded.
	IDColumn(ctx context.Context) ([]string, error)
}

// MemoryLedger is an in-process Ledger used by tests and offline commands.
type MemoryLedger struct {
	mu      sync.Mutex
	headers []string
	rows    [][]string
}

// NewMemoryLedger creates an empty in-memory ledger with the given header
// row.
func NewMemoryLedger(headers []string) *MemoryLedger {
	return &MemoryLedger{headers: headers}
}

func (m *MemoryLedger) Append(_ context.Context, row []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, stringify(row))
	return nil
}

func (m *MemoryLedger) Find(_ context.Context, key string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range m.rows {
		if len(row) > 0 && row[0] == key {
			return i + 2, true, nil // +2: header row plus 1-based indexing
		}
	}
	return 0, false, nil
}

func (m *MemoryLedger) Update(_ context.Context, handle int, row []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := handle - 2
	if idx < 0 || idx >= len(m.rows) {
		return fmt.Errorf("%w: row %d", ErrRowNotFound, handle)
	}
	m.rows[idx] = stringify(row)
	return nil
}

func (m *MemoryLedger) ReadAll(_ context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, row := range m.rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (m *MemoryLedger) IDColumn(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.rows))
	for _, row := range m.rows {
		if len(row) > 0 {
			ids = append(ids, row[0])
		} else {
			ids = append(ids, "")
		}
	}
	return ids, nil
}

func stringify(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}
