// Package storage persists audit scores.
//
// Two engines share the scores(id, url, rank, timestamp) table: SQLite via
// modernc.org/sqlite (the default, no cgo) and PostgreSQL via pgx. Timestamps
// are stored as RFC 3339 UTC text so both engines return identical values.
//
//	store, err := storage.Open(ctx, storage.Config{Engine: "sqlite", SQLitePath: "/tmp/leo.db"})
//	defer store.Close()
//	_ = store.RecordScore(ctx, "https://example.com", 61.5, time.Now())
package storage
