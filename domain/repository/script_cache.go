package repository

import (
	"context"

	"scriptgo/domain/model"
)

const (
	CacheViewDashboard = "dashboard"
	CacheViewPlanner   = "planner"
)

// IScriptCache caches a user's script listings per view.
type IScriptCache interface {
	// GetList reports ok=false on a miss.
	GetList(ctx context.Context, userID, view string) (list []*model.Script, ok bool, err error)
	SetList(ctx context.Context, userID, view string, list []*model.Script) error
	Invalidate(ctx context.Context, userID string) error
}
