package handler

import (
	"github.com/gofiber/fiber/v2"

	"appsamples/internal/auth"
	"appsamples/internal/http/middleware"
	"appsamples/internal/service"
)

type batchView struct {
	Name       string
	Status     string
	UpdateTime float64
	Output     string
	Thumb      string
	Log        string
}

type photostitchPage struct {
	User    auth.User
	Batches []batchView
}

// PhotostitchPage lists the user's batches with short-lived links to their results.
func PhotostitchPage(svc service.PhotostitchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		ctx := c.UserContext()

		batches, err := svc.Batches(ctx, user.Email)
		if err != nil {
			return writeServiceError(c, err)
		}

		data := photostitchPage{User: user, Batches: make([]batchView, 0, len(batches))}
		for _, b := range batches {
			v := batchView{Name: b.Name, Status: b.Status, UpdateTime: b.UpdateTime}
			if b.Output != nil {
				if v.Output, err = svc.Link(ctx, user.Email, b.Name, b.Output.Full); err != nil {
					return writeServiceError(c, err)
				}
				if v.Thumb, err = svc.Link(ctx, user.Email, b.Name, b.Output.Thumb); err != nil {
					return writeServiceError(c, err)
				}
			}
			if b.Log != "" {
				if v.Log, err = svc.Link(ctx, user.Email, b.Name, b.Log); err != nil {
					return writeServiceError(c, err)
				}
			}
			data.Batches = append(data.Batches, v)
		}
		return render(c, "photostitch", data)
	}
}

// SubmitStitch accepts a zip of JPEG photos for stitching. Browsers are redirected to the batch
// list; API clients asking for JSON get the queued job.
//
// @Summary Submit a stitch batch
// @Tags photostitch
// @Accept multipart/form-data
// @Produce json
// @Param batch path string false "Batch name (letters, digits, underscore)"
// @Param file formData file true "Zip archive of JPEG photos"
// @Success 202 {object} service.SubmitResult
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /photostitch/check/{batch} [post]
func SubmitStitch(svc service.PhotostitchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)

		batch := c.Params("batch")
		if batch == "" {
			batch = c.FormValue("batch")
		}
		if batch == "" {
			batch = service.DefaultBatch
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.Submit(c.UserContext(), user.Email, batch, f, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
			return c.Status(fiber.StatusAccepted).JSON(res)
		}
		return c.Redirect("/photostitch/", fiber.StatusSeeOther)
	}
}

// ListBatches returns the user's batches as JSON.
//
// @Summary List stitch batches
// @Tags photostitch
// @Produce json
// @Success 200 {array} model.StitchState
// @Failure 401 {object} errorPayload
// @Router /api/photostitch/batches [get]
func ListBatches(svc service.PhotostitchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		batches, err := svc.Batches(c.UserContext(), user.Email)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(batches)
	}
}
