package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"appsamples/internal/model"
	"appsamples/internal/service"
)

type voterlatorPage struct {
	Languages []string
	Tallies   []model.Tally
}

// VoterlatorPage renders the ballot and the current tallies.
func VoterlatorPage(svc service.VotingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tallies, err := svc.Tallies(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return render(c, "voterlator", voterlatorPage{Languages: service.Languages, Tallies: tallies})
	}
}

// CastVote queues a vote. Unknown choices are dropped silently.
func CastVote(svc service.VotingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := svc.Vote(c.UserContext(), c.FormValue("ugliest")); err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect("/voterlator/", fiber.StatusSeeOther)
	}
}

// RunTally drains the votes queue once. A drained queue answers 500 so a pushing caller retries later.
//
// @Summary Run the tally loop
// @Tags voterlator
// @Produce json
// @Failure 500 {object} errorPayload
// @Router /voterlator/tally [post]
func RunTally(svc service.VotingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Tally(c.UserContext())
		if service.IsQueueEmpty(err) {
			return writeError(c, fiber.StatusInternalServerError, "QUEUE_EMPTY",
				fmt.Sprintf("queue empty after %d votes in %d batches", res.Votes, res.Batches))
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

type startRequest struct {
	Workers *int `query:"workers" validate:"omitempty,min=0,max=100"`
}

// StartTally resets the tally queue with a fresh set of worker tasks.
//
// @Summary Start tally workers
// @Tags voterlator
// @Produce json
// @Param workers query int false "Number of tally tasks (default 2)"
// @Success 200 {object} map[string]int
// @Failure 400 {object} errorPayload
// @Router /voterlator/start [get]
func StartTally(svc service.VotingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req startRequest
		if ok, err := bindQuery(c, &req); !ok {
			return err
		}
		workers := -1
		if req.Workers != nil {
			workers = *req.Workers
		}
		n, err := svc.Start(c.UserContext(), workers)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"workers": n})
	}
}
