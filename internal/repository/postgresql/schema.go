package postgresql

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/google/uuid"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// EnsureSchema applies every embedded schema file in name order. The files
// are idempotent, so running it against an up-to-date database is a no-op.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	names, err := fs.Glob(schemaFS, "schema/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list schema files: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := schemaFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}
		slog.InfoContext(ctx, "Schema applied", "file", name)
	}
	return nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
