package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/audit"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
)

type flagRepositoryImpl struct {
	db *database.DB
}

func NewFlagRepository(db *database.DB) audit.FlagRepository {
	return &flagRepositoryImpl{db: db}
}

func (r *flagRepositoryImpl) Create(ctx context.Context, f audit.Flag) (audit.Flag, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_flags (id, kind, entity_type, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	f.ID = newID()
	if err := q.QueryRow(ctx, query, f.ID, f.Kind, f.EntityType, f.EntityID, f.Detail).Scan(&f.ID, &f.CreatedAt); err != nil {
		return audit.Flag{}, fmt.Errorf("failed to create audit flag: %w", err)
	}
	return f, nil
}

func (r *flagRepositoryImpl) List(ctx context.Context, filter audit.FlagFilter) ([]audit.Flag, int64, error) {
	q := GetQuerier(ctx, r.db)

	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM audit_flags WHERE ($1::text = '' OR kind = $1::text)`
	if err := q.QueryRow(ctx, countQuery, string(filter.Kind)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit flags: %w", err)
	}

	query := `
		SELECT id, kind, entity_type, entity_id, detail, created_at
		FROM audit_flags
		WHERE ($1::text = '' OR kind = $1::text)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, string(filter.Kind), filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit flags: %w", err)
	}
	defer rows.Close()

	var out []audit.Flag
	for rows.Next() {
		var f audit.Flag
		if err := rows.Scan(&f.ID, &f.Kind, &f.EntityType, &f.EntityID, &f.Detail, &f.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}
