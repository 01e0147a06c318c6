package handler

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"ts": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05") },
	"unix": func(sec float64) string {
		if sec == 0 {
			return "-"
		}
		return time.Unix(int64(sec), 0).UTC().Format("2006-01-02 15:04:05")
	},
}).ParseFS(templateFS, "templates/*.html"))

// render executes a page template into a buffer first so template errors still produce a clean 500.
func render(c *fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
