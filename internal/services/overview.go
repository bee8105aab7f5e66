package services

import (
	"context"
	"fmt"

	"chickstage-backend-go/internal/records"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

// CollectionCount is one card of the admin overview.
type CollectionCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Note  string `json:"note,omitempty"`
}

type Overview struct {
	Counts  []CollectionCount `json:"counts"`
	Visits  int               `json:"visits"`
	Metrics []MetricSample    `json:"metrics"`
}

var overviewCards = []struct {
	key   string
	label string
	note  func([]records.Record) string
}{
	{key: "interviews", label: "Total Interviews"},
	{key: "courses", label: "Learning Courses"},
	{key: "marketplace", label: "Marketplace Items", note: func(rows []records.Record) string {
		return fmt.Sprintf("%d active", countWhere(rows, "status", "active"))
	}},
	{key: "users", label: "Active Users"},
	{key: "livestreams", label: "Live Streams", note: func(rows []records.Record) string {
		return fmt.Sprintf("%d scheduled", countWhere(rows, "status", "scheduled"))
	}},
	{key: "lifecycle", label: "Lifecycle Records", note: func([]records.Record) string {
		return "Active batches"
	}},
}

func countWhere(rows []records.Record, field, value string) int {
	n := 0
	for _, row := range rows {
		if row.String(field) == value {
			n++
		}
	}
	return n
}

// BuildOverview counts every collection concurrently. The visit total and
// metric history come from db and are skipped when it is nil.
func BuildOverview(ctx context.Context, store records.Store, db *sqlx.DB, metricsLimit int) (Overview, error) {
	counts := make([]CollectionCount, len(overviewCards))
	g, gctx := errgroup.WithContext(ctx)
	for i, card := range overviewCards {
		schema, ok := LookupCollection(card.key)
		if !ok {
			return Overview{}, fmt.Errorf("overview: unknown collection %q", card.key)
		}
		g.Go(func() error {
			rows, err := store.List(gctx, schema.Collection, "created_at", records.Descending)
			if err != nil {
				return fmt.Errorf("count %s: %w", schema.Collection, err)
			}
			counts[i] = CollectionCount{Key: card.key, Label: card.label, Count: len(rows)}
			if card.note != nil {
				counts[i].Note = card.note(rows)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	out := Overview{Counts: counts, Metrics: []MetricSample{}}
	if db == nil {
		return out, nil
	}
	visits, err := CountVisits(ctx, db)
	if err != nil {
		return Overview{}, err
	}
	out.Visits = visits
	metrics, err := LatestMetrics(ctx, db, metricsLimit)
	if err != nil {
		return Overview{}, err
	}
	out.Metrics = metrics
	return out, nil
}
