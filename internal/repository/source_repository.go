package repository

import (
	"context"
	"time"

	"content-collector/internal/domain/entity"
)

type SourceRepository interface {
	Get(ctx context.Context, id int64) (*entity.Source, error)
	ListActive(ctx context.Context) ([]*entity.Source, error)
	ListActiveByClient(ctx context.Context, clientID int64) ([]*entity.Source, error)
	// TouchCollectedAt records the time a source was last attempted,
	// successful or not.
	TouchCollectedAt(ctx context.Context, id int64, t time.Time) error
}
