package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"appsamples/internal/auth"
	"appsamples/internal/http/middleware"
	"appsamples/internal/model"
	"appsamples/internal/service"
)

type guestbookPage struct {
	Guestbook string
	Greetings []model.Greeting
	User      *auth.User
}

// GuestbookPage renders the newest greetings of a guestbook.
func GuestbookPage(svc service.GuestbookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := service.GuestbookName(c.Query("guestbook_name"))
		greetings, err := svc.List(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		data := guestbookPage{Guestbook: name, Greetings: greetings}
		if u, ok := middleware.CurrentUser(c); ok {
			data.User = &u
		}
		return render(c, "guestbook", data)
	}
}

type signRequest struct {
	Content string `json:"content" form:"content" validate:"required,max=2000"`
}

// SignGuestbook stores a greeting and redirects back to the guestbook.
func SignGuestbook(svc service.GuestbookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := service.GuestbookName(c.Query("guestbook_name"))
		var req signRequest
		if ok, err := bindBody(c, &req); !ok {
			return err
		}

		author := ""
		if u, ok := middleware.CurrentUser(c); ok {
			author = u.Nickname()
		}
		if _, err := svc.Sign(c.UserContext(), name, author, req.Content); err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect("/guestbook/?guestbook_name="+url.QueryEscape(name), fiber.StatusSeeOther)
	}
}

// ListGreetings returns the newest greetings as JSON.
//
// @Summary List greetings
// @Tags guestbook
// @Produce json
// @Param name path string true "Guestbook name"
// @Success 200 {array} model.Greeting
// @Failure 500 {object} errorPayload
// @Router /api/guestbook/{name} [get]
func ListGreetings(svc service.GuestbookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		greetings, err := svc.List(c.UserContext(), service.GuestbookName(c.Params("name")))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(greetings)
	}
}
