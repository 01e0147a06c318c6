package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"appsamples/internal/auth"
	"appsamples/internal/http/middleware"
	"appsamples/internal/service"
)

// Dependencies are the collaborators the HTTP layer is wired with.
type Dependencies struct {
	DB       *sql.DB
	Gatherer prometheus.Gatherer
	Tokens   *auth.TaskTokens

	Guestbook   service.GuestbookService
	Voting      service.VotingService
	Photostitch service.PhotostitchService
	ImageFlip   service.ImageFlipService
	Counter     service.CounterService
	Quotes      service.QuoteService
	Paging      service.PagingService
}

// RegisterRoutes attaches every sample's routes to app. The User middleware must run before these
// routes for the login-only pages to see the caller.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	gb := app.Group("/guestbook")
	gb.Get("/", GuestbookPage(d.Guestbook))
	gb.Post("/sign", SignGuestbook(d.Guestbook))
	app.Get("/api/guestbook/:name", ListGreetings(d.Guestbook))

	vl := app.Group("/voterlator")
	vl.Get("/", VoterlatorPage(d.Voting))
	vl.Post("/", CastVote(d.Voting))
	vl.Post("/tally", RunTally(d.Voting))
	vl.Get("/start", StartTally(d.Voting))

	ps := app.Group("/photostitch", middleware.RequireUser())
	ps.Get("/", PhotostitchPage(d.Photostitch))
	ps.Post("/check/:batch?", SubmitStitch(d.Photostitch))
	app.Get("/api/photostitch/batches", middleware.RequireUser(), ListBatches(d.Photostitch))

	img := app.Group("/imageflipper")
	img.Get("/", ImageUploadPage())
	img.Post("/", UploadImage(d.ImageFlip))
	img.Post("/taskdata", TaskData(d.ImageFlip, d.Tokens))
	img.Get("/images", ServeImage(d.ImageFlip))
	img.Get("/imagestatus", ImageStatusPage(d.ImageFlip))
	img.Get("/search", ImageSearchPage())
	img.Post("/search", SearchImage())

	ctr := app.Group("/counter")
	ctr.Get("/:name", GetCounter(d.Counter))
	ctr.Post("/:name/increment", IncrementCounter(d.Counter))
	ctr.Post("/:name/shards", AddShards(d.Counter))

	oh := app.Group("/overheard")
	oh.Get("/", RankedQuotes(d.Quotes))
	oh.Get("/newest", NewestQuotes(d.Quotes))
	oh.Get("/progress", middleware.RequireUser(), QuoteProgress(d.Quotes))
	oh.Post("/quotes", middleware.RequireUser(), AddQuote(d.Quotes))
	oh.Get("/quotes/:id", GetQuote(d.Quotes))
	oh.Delete("/quotes/:id", middleware.RequireUser(), DeleteQuote(d.Quotes))
	oh.Post("/quotes/:id/vote", middleware.RequireUser(), VoteQuote(d.Quotes))

	pg := app.Group("/paging")
	pg.Get("/", SuggestionsPage(d.Paging))
	pg.Post("/", AddSuggestion(d.Paging))
	pg.Post("/pop", PopulateSuggestions(d.Paging))
	uq := pg.Group("/unique", middleware.RequireUser())
	uq.Get("/", UniqueSuggestionsPage(d.Paging))
	uq.Post("/", AddUniqueSuggestion(d.Paging))
	uq.Post("/pop", PopulateUniqueSuggestions(d.Paging))
	app.Get("/api/paging/suggestions", ListSuggestions(d.Paging))
}
