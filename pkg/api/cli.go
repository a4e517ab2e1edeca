package api

import (
	"github.com/bustracker/bustracker/pkg/api/cachedresults"
	"github.com/bustracker/bustracker/pkg/config"
	"github.com/bustracker/bustracker/pkg/database"
	"github.com/bustracker/bustracker/pkg/redis_client"
	"github.com/bustracker/bustracker/pkg/store"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the prediction and search web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					if err := database.Connect(); err != nil {
						return err
					}

					var cache *cachedresults.Cache
					if err := redis_client.Connect(); err != nil {
						log.Warn().Err(err).Msg("Redis unavailable, prediction results will not be cached")
					} else {
						cache = cachedresults.Setup(cfg.Prediction.CacheTTL())
					}

					return SetupServer(cfg, store.NewMongo(), cache)
				},
			},
		},
	}
}
