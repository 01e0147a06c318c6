package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"appsamples/internal/cache"
	"appsamples/internal/cache/mocks"

	"github.com/stretchr/testify/assert"
)

type tally struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func TestGetJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		c := new(mocks.MockCache)
		c.On("Get", ctx, "tallies").Return(`[{"name":"Go","count":3}]`, nil)

		var got []tally
		assert.NoError(t, cache.GetJSON(ctx, c, "tallies", &got))
		assert.Equal(t, []tally{{Name: "Go", Count: 3}}, got)
	})

	t.Run("miss", func(t *testing.T) {
		c := new(mocks.MockCache)
		c.On("Get", ctx, "tallies").Return("", cache.ErrCacheMiss)

		var got []tally
		assert.ErrorIs(t, cache.GetJSON(ctx, c, "tallies", &got), cache.ErrCacheMiss)
	})

	t.Run("corrupt value", func(t *testing.T) {
		c := new(mocks.MockCache)
		c.On("Get", ctx, "tallies").Return("{", nil)

		var got []tally
		err := cache.GetJSON(ctx, c, "tallies", &got)
		assert.ErrorContains(t, err, `decode cached "tallies"`)
	})
}

func TestSetJSON(t *testing.T) {
	ctx := context.Background()
	c := new(mocks.MockCache)
	c.On("Set", ctx, "tallies", `[{"name":"Perl","count":1}]`, 5*time.Second).Return(nil)

	err := cache.SetJSON(ctx, c, "tallies", []tally{{Name: "Perl", Count: 1}}, 5*time.Second)
	assert.NoError(t, err)
	c.AssertExpectations(t)

	c2 := new(mocks.MockCache)
	c2.On("Set", ctx, "k", "1", time.Duration(0)).Return(errors.New("down"))
	assert.Error(t, cache.SetJSON(ctx, c2, "k", 1, 0))
}
