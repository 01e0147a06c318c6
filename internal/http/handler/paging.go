package handler

import (
	"github.com/gofiber/fiber/v2"

	"appsamples/internal/http/middleware"
	"appsamples/internal/service"
)

type pagingPage struct {
	Title string
	Base  string
	*service.SuggestionPage
}

type suggestRequest struct {
	Suggestion string `json:"suggestion" form:"suggestion" validate:"required,max=500"`
}

// SuggestionsPage renders one page of the bookmark-paged suggestions.
func SuggestionsPage(svc service.PagingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), c.Query("offset"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return render(c, "paging", pagingPage{Title: "Suggestions", Base: "/paging/", SuggestionPage: res})
	}
}

// AddSuggestion stores a suggestion and redirects to the first page.
func AddSuggestion(svc service.PagingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req suggestRequest
		if ok, err := bindBody(c, &req); !ok {
			return err
		}
		if _, err := svc.Suggest(c.UserContext(), req.Suggestion); err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect("/paging/", fiber.StatusSeeOther)
	}
}

// PopulateSuggestions adds a batch of suggestions that share one timestamp.
func PopulateSuggestions(svc service.PagingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Populate(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect("/paging/", fiber.StatusSeeOther)
	}
}

// ListSuggestions returns one page of suggestions as JSON.
//
// @Summary List suggestions
// @Tags paging
// @Produce json
// @Param offset query string false "Bookmark from a previous page"
// @Success 200 {object} service.SuggestionPage
// @Failure 400 {object} errorPayload
// @Router /api/paging/suggestions [get]
func ListSuggestions(svc service.PagingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), c.Query("offset"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UniqueSuggestionsPage renders one page of the suggestions keyed by their unique when string.
func UniqueSuggestionsPage(svc service.PagingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ListUnique(c.UserContext(), c.Query("offset"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return render(c, "paging", pagingPage{Title: "Unique suggestions", Base: "/paging/unique/", SuggestionPage: res})
	}
}

// AddUniqueSuggestion stores a suggestion for the signed-in user.
func AddUniqueSuggestion(svc service.PagingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		var req suggestRequest
		if ok, err := bindBody(c, &req); !ok {
			return err
		}
		if _, err := svc.SuggestUnique(c.UserContext(), user, req.Suggestion); err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect("/paging/unique/", fiber.StatusSeeOther)
	}
}

// PopulateUniqueSuggestions adds a batch of suggestions for the signed-in user.
func PopulateUniqueSuggestions(svc service.PagingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		if err := svc.PopulateUnique(c.UserContext(), user); err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect("/paging/unique/", fiber.StatusSeeOther)
	}
}
