// Package main provides the ReviewDrip API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/reviewdrip/reviewdrip/pkg/analytics"
	"github.com/reviewdrip/reviewdrip/pkg/campaign"
	"github.com/reviewdrip/reviewdrip/pkg/contacts"
	"github.com/reviewdrip/reviewdrip/pkg/dispatch"
	"github.com/reviewdrip/reviewdrip/pkg/eventbus"
	"github.com/reviewdrip/reviewdrip/pkg/funnel"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
	"github.com/reviewdrip/reviewdrip/pkg/platforms"
	"github.com/reviewdrip/reviewdrip/pkg/sessions"
	"github.com/reviewdrip/reviewdrip/pkg/web"
)

type API struct {
	logger          *slog.Logger
	persistence     persistence.Persistence
	eventBus        eventbus.EventBus
	sessionStore    sessions.Store
	platformsConfig string
	validate        *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	sessionStore sessions.Store,
	platformsConfig string,
) *API {
	return &API{
		logger:          logger,
		persistence:     persistence,
		eventBus:        eventBus,
		sessionStore:    sessionStore,
		platformsConfig: platformsConfig,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	platformsConfig := platforms.LoadConfigOrDefault(a.platformsConfig)
	registry := platforms.NewRegistry(a.persistence.PlatformLinks(), platformsConfig)
	tracker := analytics.NewTracker(a.eventBus, a.logger)

	machine := funnel.NewMachine(
		a.persistence.Feedback(),
		a.persistence.Videos(),
		registry,
		tracker,
		a.logger,
	)

	contactService := contacts.NewService(a.persistence)
	campaignService := campaign.NewService(a.persistence)
	sender := campaign.NewSender(dispatch.NewLogDispatcher(a.logger), a.logger)

	handlers := web.NewAPIHandlers(
		machine,
		a.sessionStore,
		registry,
		contactService,
		campaignService,
		sender,
		a.persistence,
		a.validate,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("ReviewDrip API")
	})

	f := app.Group("/funnel/sessions")
	f.Post("/", handlers.CreateSession)
	f.Get("/:id", handlers.GetSession)
	f.Post("/:id/rate", handlers.RateSession)
	f.Post("/:id/platform", handlers.SelectPlatform)
	f.Post("/:id/video", handlers.SelectVideo)
	f.Post("/:id/back", handlers.GoBack)
	f.Post("/:id/feedback", handlers.SubmitFeedback)
	f.Post("/:id/video-submission", handlers.SubmitVideo)

	app.Get("/funnel/platforms", handlers.GetPlatforms)

	ct := app.Group("/contacts")
	ct.Get("/", handlers.GetContacts)
	ct.Post("/", handlers.CreateContact)
	ct.Post("/bulk", handlers.BulkImportContacts)
	ct.Get("/:id", handlers.GetContact)
	ct.Patch("/:id", handlers.UpdateContact)
	ct.Delete("/:id", handlers.DeleteContact)

	cp := app.Group("/campaigns")
	cp.Get("/", handlers.GetCampaigns)
	cp.Post("/", handlers.CreateCampaign)
	cp.Post("/import", handlers.ImportCampaign)
	cp.Get("/:id", handlers.GetCampaign)
	cp.Patch("/:id", handlers.UpdateCampaign)
	cp.Delete("/:id", handlers.DeleteCampaign)
	cp.Post("/:id/enroll", handlers.EnrollContact)
	cp.Post("/:id/send", handlers.SendCampaign)
	cp.Patch("/:id/sequence/steps/:stepId", handlers.EditSequenceStep)
	cp.Post("/:id/sequence/steps/:stepId/decision", handlers.DecideBranch)

	pl := app.Group("/platform-links")
	pl.Get("/", handlers.GetPlatformLinks)
	pl.Post("/", handlers.SavePlatformLink)
	pl.Put("/:id", handlers.SavePlatformLink)
	pl.Delete("/:id", handlers.DeletePlatformLink)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
