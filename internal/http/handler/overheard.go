package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"appsamples/internal/http/middleware"
	"appsamples/internal/model"
	"appsamples/internal/service"
)

func quoteID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

// RankedQuotes returns a page of the highest ranked quotes.
//
// @Summary Ranked quotes
// @Tags overheard
// @Produce json
// @Param page query int false "Page 0..19"
// @Success 200 {object} service.QuotePage
// @Failure 400 {object} errorPayload
// @Router /overheard/ [get]
func RankedQuotes(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		res, err := svc.Ranked(c.UserContext(), page)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// NewestQuotes returns quotes by creation order starting at the offset cursor.
//
// @Summary Newest quotes
// @Tags overheard
// @Produce json
// @Param offset query string false "Cursor from a previous page"
// @Success 200 {object} service.QuotePage
// @Router /overheard/newest [get]
func NewestQuotes(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Newest(c.UserContext(), c.Query("offset"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

type addQuoteRequest struct {
	Quote string `json:"quote" form:"quote" validate:"required,max=500"`
	URI   string `json:"uri" form:"uri" validate:"omitempty,url,max=2000"`
}

// AddQuote stores a quote for the signed-in user.
//
// @Summary Add a quote
// @Tags overheard
// @Accept json
// @Produce json
// @Param body body addQuoteRequest true "Quote"
// @Success 201 {object} model.Quote
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /overheard/quotes [post]
func AddQuote(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		var req addQuoteRequest
		if ok, err := bindBody(c, &req); !ok {
			return err
		}
		q, err := svc.AddQuote(c.UserContext(), user, req.Quote, req.URI)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(q)
	}
}

type quoteResponse struct {
	*model.Quote
	Vote int `json:"vote"`
}

// GetQuote returns a quote and, for a signed-in user, their vote on it.
//
// @Summary Get a quote
// @Tags overheard
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} quoteResponse
// @Failure 404 {object} errorPayload
// @Router /overheard/quotes/{id} [get]
func GetQuote(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := quoteID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		q, err := svc.GetQuote(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		res := quoteResponse{Quote: q}
		if user, ok := middleware.CurrentUser(c); ok {
			if res.Vote, err = svc.Voted(c.UserContext(), id, user); err != nil {
				return writeServiceError(c, err)
			}
		}
		return c.JSON(res)
	}
}

// DeleteQuote removes a quote; only its creator or an admin may.
//
// @Summary Delete a quote
// @Tags overheard
// @Param id path int true "Quote ID"
// @Success 204
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /overheard/quotes/{id} [delete]
func DeleteQuote(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := quoteID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		user, _ := middleware.CurrentUser(c)
		if err := svc.DeleteQuote(c.UserContext(), id, user); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type voteRequest struct {
	Vote *int `json:"vote" form:"vote" validate:"required,min=-1,max=1"`
}

// VoteQuote records the user's vote of -1, 0 or 1.
//
// @Summary Vote on a quote
// @Tags overheard
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param body body voteRequest true "Vote"
// @Success 200 {object} map[string]int
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /overheard/quotes/{id}/vote [post]
func VoteQuote(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := quoteID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req voteRequest
		if ok, err := bindBody(c, &req); !ok {
			return err
		}
		user, _ := middleware.CurrentUser(c)
		if err := svc.SetVote(c.UserContext(), id, user, *req.Vote); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"vote": *req.Vote})
	}
}

// QuoteProgress reports whether the user has voted and added a quote.
//
// @Summary Voter progress
// @Tags overheard
// @Produce json
// @Success 200 {object} service.Progress
// @Failure 401 {object} errorPayload
// @Router /overheard/progress [get]
func QuoteProgress(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		p, err := svc.Progress(c.UserContext(), user)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}
