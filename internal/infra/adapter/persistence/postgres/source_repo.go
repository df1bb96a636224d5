// Package postgres implements the repository interfaces on PostgreSQL using
// database/sql with the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"content-collector/internal/domain/entity"
	"content-collector/internal/repository"
	"content-collector/internal/resilience/retry"
)

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

const sourceColumns = "id, client_id, name, url, source_type, active, last_collected_at"

// scanSource scans one source row.
func scanSource(rows *sql.Rows) (*entity.Source, error) {
	var source entity.Source
	if err := rows.Scan(
		&source.ID, &source.ClientID, &source.Name, &source.URL,
		&source.Type, &source.Active, &source.LastCollectedAt,
	); err != nil {
		return nil, err
	}
	return &source, nil
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	const query = `
SELECT ` + sourceColumns + `
FROM sources
WHERE id = $1
LIMIT 1`
	var source entity.Source
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&source.ID, &source.ClientID, &source.Name, &source.URL,
		&source.Type, &source.Active, &source.LastCollectedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &source, nil
}

func (repo *SourceRepo) ListActive(ctx context.Context) ([]*entity.Source, error) {
	const query = `
SELECT ` + sourceColumns + `
FROM sources
WHERE active = TRUE
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

func (repo *SourceRepo) ListActiveByClient(ctx context.Context, clientID int64) ([]*entity.Source, error) {
	const query = `
SELECT ` + sourceColumns + `
FROM sources
WHERE active = TRUE
AND client_id = $1
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("ListActiveByClient: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActiveByClient: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

// TouchCollectedAt advances the source's watermark. The write is retried on
// transient connection errors so a blip cannot lose the timestamp.
func (repo *SourceRepo) TouchCollectedAt(ctx context.Context, id int64, t time.Time) error {
	const query = `
UPDATE sources
SET last_collected_at = $2
WHERE id = $1`
	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
		_, execErr := repo.db.ExecContext(ctx, query, id, t)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("TouchCollectedAt: %w", err)
	}
	return nil
}
