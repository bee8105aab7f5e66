package records

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Op names a Store operation for fault injection.
type Op string

const (
	OpList   Op = "list"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// MemoryStore is an in-process Store with the same semantics as SQLStore.
type MemoryStore struct {
	Now   func() time.Time
	NewID func() string

	mu       sync.Mutex
	tables   map[string][]Record
	failures map[Op]error
	calls    map[Op]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
		tables:   map[string][]Record{},
		failures: map[Op]error{},
		calls:    map[Op]int{},
	}
}

// FailNext makes the next call of op return err.
func (m *MemoryStore) FailNext(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

// Calls reports how many times op was invoked, failed calls included.
func (m *MemoryStore) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MemoryStore) take(op Op) error {
	m.calls[op]++
	err := m.failures[op]
	delete(m.failures, op)
	return err
}

func (m *MemoryStore) List(ctx context.Context, collection, orderBy string, dir Direction) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.take(OpList); err != nil {
		return nil, err
	}
	if err := checkIdentifiers(collection, orderBy); err != nil {
		return nil, err
	}
	rows := m.tables[collection]
	items := make([]Record, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Clone())
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := compareValues(items[i][orderBy], items[j][orderBy])
		if dir == Ascending {
			return c < 0
		}
		return c > 0
	})
	return items, nil
}

func (m *MemoryStore) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.take(OpInsert); err != nil {
		return nil, err
	}
	row := rec.Clone()
	row["id"] = m.NewID()
	row["created_at"] = m.Now()
	if err := checkIdentifiers(append([]string{collection}, sortedColumns(row)...)...); err != nil {
		return nil, err
	}
	m.tables[collection] = append(m.tables[collection], row)
	return row.Clone(), nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.take(OpUpdate); err != nil {
		return nil, err
	}
	if err := checkIdentifiers(append([]string{collection}, sortedColumns(rec)...)...); err != nil {
		return nil, err
	}
	for _, row := range m.tables[collection] {
		if row.ID() != id {
			continue
		}
		for k, v := range rec {
			if k == "id" || k == "created_at" {
				continue
			}
			row[k] = v
		}
		return row.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.take(OpDelete); err != nil {
		return err
	}
	if err := checkIdentifiers(collection); err != nil {
		return err
	}
	rows := m.tables[collection]
	for i, row := range rows {
		if row.ID() == id {
			m.tables[collection] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// compareValues orders nil before everything else and falls back to the
// textual form for mixed types.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmpOrdered(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return cmpOrdered(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmpOrdered(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func cmpOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
