package repository

import (
	"context"

	"content-collector/internal/domain/entity"
)

type ContentRepository interface {
	// SaveIfNew inserts the record unless one with the same URL already
	// exists. Returns the record ID and whether a row was stored.
	SaveIfNew(ctx context.Context, rec *entity.ContentRecord, sourceID, clientID int64) (int64, bool, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
}
