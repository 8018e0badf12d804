package cache_test

import (
	"context"
	"testing"
	"time"

	"scriptgo/domain/model"
	"scriptgo/domain/repository"
	"scriptgo/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListKey(t *testing.T) {
	assert.Equal(t, "scriptgo:scripts:user-1:dashboard", cache.ListKey("user-1", repository.CacheViewDashboard))
	assert.Equal(t, "scriptgo:scripts:user-1:planner", cache.ListKey("user-1", repository.CacheViewPlanner))
}

// Without Redis the cache behaves as a permanent miss and never fails writes.
func TestScriptCache_NilClient(t *testing.T) {
	c := cache.NewScriptCache(nil, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, "user-1", repository.CacheViewDashboard, []*model.Script{{ID: "a"}}))

	list, ok, err := c.GetList(ctx, "user-1", repository.CacheViewDashboard)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, list)

	require.NoError(t, c.Invalidate(ctx, "user-1"))
}
