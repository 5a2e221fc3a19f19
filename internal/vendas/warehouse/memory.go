package warehouse

import (
	"context"
	"strconv"
	"sync"

	"github.com/shandysiswandi/vendasload/internal/vendas/entity"
)

// InMemory is an append-only table kept in process memory. Rows are stored as
// column name to value records since appends may carry different columns.
type InMemory struct {
	mu    sync.RWMutex
	table string
	jobs  int
	rows  []map[string]any
}

func NewInMemory(table string) *InMemory {
	return &InMemory{table: table}
}

func (m *InMemory) Table() string {
	return m.table
}

func (m *InMemory) Append(ctx context.Context, ds entity.Dataset) (entity.LoadJob, error) {
	if err := ctx.Err(); err != nil {
		return entity.LoadJob{}, err
	}

	records := make([]map[string]any, 0, ds.Len())
	for _, row := range ds.Rows {
		rec := make(map[string]any, len(ds.Columns))
		for i, col := range ds.Columns {
			rec[col] = row[i]
		}
		records = append(records, rec)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobs++
	m.rows = append(m.rows, records...)

	return entity.LoadJob{
		ID:    "memory_" + strconv.Itoa(m.jobs),
		Table: m.table,
		Rows:  int64(len(records)),
	}, nil
}

// Rows returns a snapshot of every appended row.
func (m *InMemory) Rows() []map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]map[string]any, len(m.rows))
	copy(out, m.rows)
	return out
}

func (m *InMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.rows)
}
