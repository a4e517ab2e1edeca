package api

import (
	"time"

	"github.com/bustracker/bustracker/pkg/api/cachedresults"
	"github.com/bustracker/bustracker/pkg/api/routes"
	"github.com/bustracker/bustracker/pkg/config"
	"github.com/bustracker/bustracker/pkg/prediction"
	"github.com/bustracker/bustracker/pkg/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func SetupServer(cfg config.Config, repository store.Mongo, cache *cachedresults.Cache) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	if cfg.API.RateLimit.Enabled {
		webApp.Use(limiter.New(limiter.Config{
			Max:        cfg.API.RateLimit.PermitLimit,
			Expiration: time.Duration(cfg.API.RateLimit.WindowSeconds) * time.Second,
		}))
	}

	engine := &prediction.Engine{
		Stops:     repository,
		Lines:     repository,
		Positions: repository,

		Window: cfg.Prediction.Window(),
	}

	group := webApp.Group("/bus")

	group.Get("version", routes.APIVersion)

	routes.StopsRouter{Stops: repository, Lines: repository}.Register(group.Group("/stops"))
	routes.LinesRouter{Lines: repository}.Register(group.Group("/lines"))
	routes.PredictionRouter{Engine: engine, Cache: cache}.Register(group.Group("/prediction"))

	return webApp.Listen(cfg.API.Listen)
}
