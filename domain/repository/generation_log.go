package repository

import (
	"context"

	"scriptgo/domain/model"
)

// IGenerationLog keeps an audit trail of provider calls.
type IGenerationLog interface {
	Record(ctx context.Context, attempts ...model.GenerationAttempt) error
	ListRecent(ctx context.Context, userID string, limit int64) ([]model.GenerationAttempt, error)
}
