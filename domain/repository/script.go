package repository

import (
	"context"
	"errors"

	"scriptgo/domain/model"
)

// ErrScriptNotFound is returned when no row matches both the id and the owner.
var ErrScriptNotFound = errors.New("script not found")

// ListFilter narrows a user's script listing.
// ScheduledOnly selects planner rows ordered by scheduled_date ascending;
// otherwise all rows are returned newest first.
type ListFilter struct {
	ScheduledOnly bool
}

// IScript persists scripts. Every method is scoped to the owning user.
type IScript interface {
	Insert(ctx context.Context, script *model.Script) error
	// InsertBatch writes all rows or none.
	InsertBatch(ctx context.Context, scripts []*model.Script) error
	// Update overwrites metadata and content of an existing script.
	Update(ctx context.Context, script *model.Script) error
	UpdateContent(ctx context.Context, userID, id, content string) error
	GetByID(ctx context.Context, userID, id string) (*model.Script, error)
	GetByIDs(ctx context.Context, userID string, ids []string) ([]*model.Script, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]*model.Script, error)
	Count(ctx context.Context, userID string) (model.ScriptStats, error)
	Delete(ctx context.Context, userID, id string) error
	// DeleteMany returns how many rows were removed.
	DeleteMany(ctx context.Context, userID string, ids []string) (int64, error)
}
