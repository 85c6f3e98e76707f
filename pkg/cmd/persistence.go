// Package cmd provides shared wiring helpers for the command-line tools.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/weftlabs/weft/pkg/persistence"
	"github.com/weftlabs/weft/pkg/persistence/file"
	"github.com/weftlabs/weft/pkg/persistence/postgresql"
)

// NewPersistence selects a persistence backend by URL scheme:
// postgres:// connects to PostgreSQL, anything else is treated as a file
// root (optionally prefixed file://).
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseProvider(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parseProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return scheme
}
