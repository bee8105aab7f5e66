package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chickstage-backend-go/internal/content"
	"chickstage-backend-go/internal/crud"
	"chickstage-backend-go/internal/records"

	"go.uber.org/zap"
)

// adminCategory maps storefront categories onto the marketplace enum.
var adminCategory = map[string]string{
	"chicks": "chicks",
	"layers": "chicks",
	"feed":   "feed",
}

var batchStage = map[string]string{
	"Brooding Stage": "chick",
	"Young Chick":    "chick",
	"Growing":        "juvenile",
	"Developing":     "juvenile",
	"Mature":         "adult",
}

// SeedRows builds demo rows for each collection from the public catalogue.
// ownerID is used as seller, host and lifecycle owner.
func SeedRows(c *content.Catalog, ownerID string) map[string][]records.Record {
	rows := map[string][]records.Record{}
	add := func(schema crud.Schema, form crud.FormState) {
		rows[schema.Collection] = append(rows[schema.Collection], crud.ToRecord(schema, form))
	}

	for _, iv := range c.Interviews {
		add(Interviews, crud.FormState{
			"title":          iv.Title,
			"farmer_name":    iv.Farmer,
			"description":    iv.Description,
			"farm_location":  iv.Location,
			"interview_date": isoDate(iv.Date),
		})
	}
	for _, course := range c.Courses {
		kind := course.Type
		if !hasOption(courseTypes, kind) {
			kind = "tutorial"
		}
		add(Courses, crud.FormState{
			"title":       course.Title,
			"description": course.Description,
			"type":        kind,
			"duration":    course.Duration,
		})
	}
	for _, p := range c.Products {
		category, ok := adminCategory[p.Category]
		if !ok {
			category = "other"
		}
		status := "active"
		if !p.InStock() {
			status = "pending"
		}
		add(Marketplace, crud.FormState{
			"title":        p.Name,
			"description":  p.Description,
			"price":        strconv.FormatFloat(p.Price, 'f', -1, 64),
			"currency":     "KES",
			"status":       status,
			"category":     category,
			"location":     p.Location,
			"contact_info": p.Phone,
			"seller_id":    ownerID,
		})
	}
	for _, s := range c.Upcoming {
		add(Livestreams, crud.FormState{
			"title":       s.Title,
			"description": s.Description,
			"status":      "scheduled",
			"host_id":     ownerID,
		})
	}
	for _, b := range c.Batches {
		stage, ok := batchStage[b.Stage]
		if !ok {
			stage = "chick"
		}
		add(Lifecycle, crud.FormState{
			"batch_name":    b.Name,
			"breed":         "Broiler",
			"current_stage": stage,
			"quantity":      strconv.Itoa(b.TotalChicks),
			"start_date":    b.StartDate,
			"notes":         "Feed: " + b.FeedType,
			"user_id":       ownerID,
		})
	}
	return rows
}

// Seed inserts the demo rows into every collection that is still empty and
// reports how many rows went into each.
func Seed(ctx context.Context, store records.Store, c *content.Catalog, ownerID string, logger *zap.Logger) (map[string]int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	inserted := map[string]int{}
	seed := SeedRows(c, ownerID)
	for _, schema := range Collections() {
		rows := seed[schema.Collection]
		if len(rows) == 0 {
			continue
		}
		existing, err := store.List(ctx, schema.Collection, "created_at", records.Descending)
		if err != nil {
			return inserted, fmt.Errorf("seed %s: %w", schema.Collection, err)
		}
		if len(existing) > 0 {
			logger.Info("seed skipped, collection not empty", zap.String("collection", schema.Collection), zap.Int("rows", len(existing)))
			continue
		}
		for _, row := range rows {
			if _, err := store.Insert(ctx, schema.Collection, row); err != nil {
				return inserted, fmt.Errorf("seed %s: %w", schema.Collection, err)
			}
			inserted[schema.Collection]++
		}
		logger.Info("seeded collection", zap.String("collection", schema.Collection), zap.Int("rows", inserted[schema.Collection]))
	}
	return inserted, nil
}

func hasOption(options []crud.Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// isoDate converts "March 15, 2024" to "2024-03-15". Anything else is
// returned trimmed.
func isoDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("January 2, 2006", raw); err == nil {
		return t.Format("2006-01-02")
	}
	return raw
}
