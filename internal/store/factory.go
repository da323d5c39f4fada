package store

import (
	"context"
	"strings"
)

// NewStore creates a postgres-backed store when configured, otherwise the
// embedded SQLite store.
func NewStore(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewSQLiteStore(ctx, sqlitePath)
	}
	return NewPostgresStore(ctx, databaseURL)
}
