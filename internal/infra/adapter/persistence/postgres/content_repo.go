package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"content-collector/internal/domain/entity"
	"content-collector/internal/repository"
	"content-collector/internal/resilience/retry"
)

type ContentRepo struct{ db *sql.DB }

func NewContentRepo(db *sql.DB) repository.ContentRepository {
	return &ContentRepo{db: db}
}

// SaveIfNew inserts the record unless its URL is already present. The URL
// column carries a unique constraint; ON CONFLICT DO NOTHING makes the
// duplicate case race-free. The second return reports whether a row was
// actually stored.
func (repo *ContentRepo) SaveIfNew(ctx context.Context, rec *entity.ContentRecord, sourceID, clientID int64) (int64, bool, error) {
	const query = `
INSERT INTO content_records
	(source_id, client_id, title, url, body_text, summary, author,
	 published_at, tags, origin, word_count, reading_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (url) DO NOTHING
RETURNING id`
	var id int64
	var stored bool
	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
		scanErr := repo.db.QueryRowContext(ctx, query,
			sourceID, clientID, rec.Title, rec.URL, rec.BodyText, rec.Summary,
			rec.Author, rec.PublishedAt, joinTags(rec.Tags), string(rec.Origin),
			rec.WordCount, rec.ReadingTime,
		).Scan(&id)
		if scanErr == sql.ErrNoRows {
			// Conflict: the URL was already stored.
			stored = false
			return nil
		}
		if scanErr != nil {
			return scanErr
		}
		stored = true
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("SaveIfNew: %w", err)
	}
	if !stored {
		return 0, false, nil
	}
	return id, true, nil
}

func (repo *ContentRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `
SELECT EXISTS (SELECT 1 FROM content_records WHERE url = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, url).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return exists, nil
}

// joinTags stores the ordered tag list as a comma-separated string.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}
