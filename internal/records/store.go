// Package records is the client for the hosted relational backend. Every
// collection is accessed through the same four operations; rows travel as
// flat column maps.
package records

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// Direction is the sort direction of a List call.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func (d Direction) sql() string {
	if d == Ascending {
		return "ASC"
	}
	return "DESC"
}

// Record is one row of a collection. A nil value is SQL NULL.
type Record map[string]any

func (r Record) ID() string {
	return r.String("id")
}

// String returns the field as text, or "" when it is absent or not a string.
func (r Record) String(field string) string {
	switch v := r[field].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

func (r Record) CreatedAt() time.Time {
	if t, ok := r["created_at"].(time.Time); ok {
		return t
	}
	return time.Time{}
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store is the query/command interface over named collections.
type Store interface {
	List(ctx context.Context, collection, orderBy string, dir Direction) ([]Record, error)
	Insert(ctx context.Context, collection string, rec Record) (Record, error)
	Update(ctx context.Context, collection, id string, rec Record) (Record, error)
	Delete(ctx context.Context, collection, id string) error
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether name may be spliced into SQL as a table or
// column name.
func ValidIdentifier(name string) bool {
	return len(name) <= 63 && identifierPattern.MatchString(name)
}

func checkIdentifiers(names ...string) error {
	for _, name := range names {
		if !ValidIdentifier(name) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}
	return nil
}
