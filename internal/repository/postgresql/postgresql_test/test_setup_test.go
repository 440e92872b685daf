package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/cmlabs-hris/resto-settlement-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds the connection shared by the integration tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// Tests are skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, postgresql.EnsureSchema(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup
}

// TruncateAllTables removes every row written by a previous test.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"audit_flags",
		"payroll_lines",
		"payroll_runs",
		"salary_deductions",
		"field_returns",
		"field_dispatches",
		"cashups",
		"shifts",
		"employees",
		"commission_plans",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// CreateEmployee inserts an active employee and returns its id.
func (s *TestDatabaseSetup) CreateEmployee(t *testing.T, name, role, empType string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := s.DB.Exec(context.Background(), `
		INSERT INTO employees (id, name, role, type, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, id, name, role, empType)
	require.NoError(t, err)
	return id
}
