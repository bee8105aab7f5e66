package services

import (
	"testing"
	"time"

	"chickstage-backend-go/internal/records"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  last_login_at TIMESTAMP NULL
);
CREATE TABLE profiles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  full_name TEXT NULL,
  phone TEXT NULL,
  farm_location TEXT NULL,
  farm_size TEXT NULL,
  experience_level TEXT NULL,
  created_at TIMESTAMP NOT NULL
);
CREATE TABLE server_metric_samples (
  id TEXT PRIMARY KEY,
  captured_at TIMESTAMP NOT NULL,
  heap_used_bytes INTEGER NOT NULL,
  heap_max_bytes INTEGER NOT NULL,
  system_memory_total_bytes INTEGER NOT NULL,
  system_memory_used_bytes INTEGER NOT NULL,
  disk_total_bytes INTEGER NOT NULL,
  disk_used_bytes INTEGER NOT NULL,
  process_cpu_load REAL NOT NULL,
  system_cpu_load REAL NOT NULL
);
CREATE TABLE site_visits (
  id TEXT PRIMARY KEY,
  ip_address TEXT NULL,
  user_agent TEXT NULL,
  path TEXT NULL,
  referrer TEXT NULL,
  created_at TIMESTAMP NOT NULL
);`

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)
	return db
}

func testTokens() TokenService {
	return TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "chickstage-test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func newTestAccounts(t *testing.T) (*Accounts, *sqlx.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewAccounts(db, records.NewSQLStore(db), testTokens(), nil), db
}
