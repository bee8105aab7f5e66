package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Visit is one public page view.
type Visit struct {
	ID        string    `db:"id"`
	IPAddress *string   `db:"ip_address"`
	UserAgent *string   `db:"user_agent"`
	Path      *string   `db:"path"`
	Referrer  *string   `db:"referrer"`
	CreatedAt time.Time `db:"created_at"`
}

func NewVisit(ip, userAgent, path, referrer string) Visit {
	return Visit{
		ID:        uuid.NewString(),
		IPAddress: nullIfEmpty(trimString(ip, 64)),
		UserAgent: nullIfEmpty(trimString(userAgent, 512)),
		Path:      nullIfEmpty(trimString(path, 255)),
		Referrer:  nullIfEmpty(trimString(referrer, 512)),
		CreatedAt: time.Now().UTC(),
	}
}

func RecordVisit(ctx context.Context, db *sqlx.DB, v Visit) error {
	_, err := db.NamedExecContext(ctx, `
INSERT INTO site_visits (id, ip_address, user_agent, path, referrer, created_at)
VALUES (:id, :ip_address, :user_agent, :path, :referrer, :created_at)
`, v)
	return err
}

func CountVisits(ctx context.Context, db *sqlx.DB) (int, error) {
	var total int
	err := db.GetContext(ctx, &total, `SELECT count(*) FROM site_visits`)
	return total, err
}

func trimString(value string, maxLen int) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

func nullIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
