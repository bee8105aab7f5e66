package records

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLStore implements Store over any sqlx database. Table and column names
// come from the record keys and are checked with ValidIdentifier before use.
type SQLStore struct {
	DB    *sqlx.DB
	Now   func() time.Time
	NewID func() string
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{
		DB:    db,
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

func (s *SQLStore) List(ctx context.Context, collection, orderBy string, dir Direction) ([]Record, error) {
	if err := checkIdentifiers(collection, orderBy); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s %s", collection, orderBy, dir.sql())
	rows, err := s.DB.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()
	items := []Record{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		items = append(items, normalizeRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return items, nil
}

func (s *SQLStore) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	row := rec.Clone()
	row["id"] = s.NewID()
	row["created_at"] = s.Now()
	cols := sortedColumns(row)
	if err := checkIdentifiers(append([]string{collection}, cols...)...); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s) RETURNING *",
		collection, strings.Join(cols, ", "), strings.Join(cols, ", :"))
	return s.returningOne(ctx, collection, query, row)
}

func (s *SQLStore) Update(ctx context.Context, collection, id string, rec Record) (Record, error) {
	row := rec.Clone()
	delete(row, "id")
	delete(row, "created_at")
	cols := sortedColumns(row)
	if err := checkIdentifiers(append([]string{collection}, cols...)...); err != nil {
		return nil, err
	}
	sets := make([]string, 0, len(cols))
	for _, col := range cols {
		sets = append(sets, col+" = :"+col)
	}
	// an empty payload still has to prove the row exists
	if len(sets) == 0 {
		sets = append(sets, "id = id")
	}
	row["id"] = id
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id RETURNING *", collection, strings.Join(sets, ", "))
	return s.returningOne(ctx, collection, query, row)
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkIdentifiers(collection); err != nil {
		return err
	}
	query := s.DB.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", collection))
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	return nil
}

func (s *SQLStore) returningOne(ctx context.Context, collection, query string, args Record) (Record, error) {
	rows, err := s.DB.NamedQueryContext(ctx, query, map[string]any(args))
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", collection, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("write %s: %w", collection, err)
		}
		return nil, ErrNotFound
	}
	row := map[string]any{}
	if err := rows.MapScan(row); err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}
	return normalizeRow(row), nil
}

func sortedColumns(row Record) []string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// normalizeRow turns driver-specific scan values into the plain Go values the
// rest of the service works with.
func normalizeRow(row map[string]any) Record {
	out := make(Record, len(row))
	for k, v := range row {
		switch value := v.(type) {
		case []byte:
			out[k] = string(value)
		case [16]byte:
			out[k] = uuid.UUID(value).String()
		case time.Time:
			out[k] = value.UTC()
		case int32:
			out[k] = int64(value)
		case float32:
			out[k] = float64(value)
		default:
			out[k] = value
		}
	}
	return out
}
