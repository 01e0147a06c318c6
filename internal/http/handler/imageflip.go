package handler

import (
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"appsamples/internal/auth"
	"appsamples/internal/service"
)

// maxImageBytes bounds a single uploaded image.
const maxImageBytes = 16 << 20

// ImageUploadPage renders the upload form.
func ImageUploadPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, "imageflip_upload", nil)
	}
}

// UploadImage stores the first non-empty upload* file under the form's name and queues it for flipping.
func UploadImage(svc service.ImageFlipService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := strings.TrimSpace(c.FormValue("name"))
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		fields := make([]string, 0, len(form.File))
		for field := range form.File {
			if strings.HasPrefix(field, "upload") {
				fields = append(fields, field)
			}
		}
		sort.Strings(fields)

		for _, field := range fields {
			for _, fh := range form.File[field] {
				if fh.Size == 0 {
					continue
				}
				if fh.Size > maxImageBytes {
					return writeError(c, fiber.StatusRequestEntityTooLarge, "TOO_LARGE", "image too large")
				}
				f, err := fh.Open()
				if err != nil {
					return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
				}
				data, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
				}
				if _, err := svc.Upload(c.UserContext(), name, data); err != nil {
					return writeServiceError(c, err)
				}
				return c.Redirect("/imageflipper/imagestatus?name="+url.QueryEscape(name), fiber.StatusSeeOther)
			}
		}
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
}

// TaskData receives a flipped image from a worker. The bearer token must be an admin task token
// issued for the named task.
//
// @Summary Post a processed image
// @Tags imageflipper
// @Accept octet-stream
// @Produce json
// @Param name query string true "Task name"
// @Security BearerAuth
// @Success 200 {object} model.SmallImage
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /imageflipper/taskdata [post]
func TaskData(svc service.ImageFlipService, tokens *auth.TaskTokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		task := c.Query("name")
		if _, err := tokens.Verify(c.Get(fiber.HeaderAuthorization), task); err != nil {
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "not allowed")
		}
		// fasthttp reuses the request buffer after the handler returns.
		body := append([]byte(nil), c.Body()...)
		img, err := svc.StoreProcessed(c.UserContext(), task, body)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(img)
	}
}

// ServeImage streams a stored image.
func ServeImage(svc service.ImageFlipService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, img, err := svc.Open(c.UserContext(), c.Query("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, img.ContentType)
		return c.SendStream(rc, int(img.Size))
	}
}

// ImageStatusPage shows the uploaded image and, once available, its flipped copy.
func ImageStatusPage(svc service.ImageFlipService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.Status(c.UserContext(), c.Query("name"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return render(c, "imageflip_status", st)
	}
}

// ImageSearchPage renders the search form.
func ImageSearchPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, "imageflip_search", nil)
	}
}

// SearchImage redirects to the status page of the named image.
func SearchImage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := strings.TrimSpace(c.FormValue("name"))
		return c.Redirect("/imageflipper/imagestatus?name="+url.QueryEscape(name), fiber.StatusSeeOther)
	}
}
