package handler

import (
	"github.com/gofiber/fiber/v2"

	"appsamples/internal/service"
)

type counterResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type shardsResponse struct {
	Name       string `json:"name"`
	ShardCount int    `json:"shard_count"`
}

// GetCounter returns the total of a sharded counter.
//
// @Summary Read a counter
// @Tags counter
// @Produce json
// @Param name path string true "Counter name"
// @Success 200 {object} counterResponse
// @Router /counter/{name} [get]
func GetCounter(svc service.CounterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		n, err := svc.Count(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(counterResponse{Name: name, Count: n})
	}
}

// IncrementCounter adds one to a random shard.
//
// @Summary Increment a counter
// @Tags counter
// @Param name path string true "Counter name"
// @Success 204
// @Router /counter/{name}/increment [post]
func IncrementCounter(svc service.CounterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Increment(c.UserContext(), c.Params("name")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type shardsRequest struct {
	Count int `json:"count" form:"count" validate:"required,min=1,max=1000"`
}

// AddShards raises the shard count of a counter.
//
// @Summary Add shards
// @Tags counter
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name path string true "Counter name"
// @Param count formData int true "Shards to add"
// @Success 200 {object} shardsResponse
// @Failure 400 {object} errorPayload
// @Router /counter/{name}/shards [post]
func AddShards(svc service.CounterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req shardsRequest
		if ok, err := bindBody(c, &req); !ok {
			return err
		}
		name := c.Params("name")
		n, err := svc.AddShards(c.UserContext(), name, req.Count)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(shardsResponse{Name: name, ShardCount: n})
	}
}
