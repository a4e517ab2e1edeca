package ingest

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/bustracker/bustracker/pkg/config"
	"github.com/bustracker/bustracker/pkg/database"
	"github.com/bustracker/bustracker/pkg/feed"
	"github.com/bustracker/bustracker/pkg/linecode"
	"github.com/bustracker/bustracker/pkg/store"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Continuously ingests realtime vehicle positions",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the position ingest worker",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					if err := database.Connect(); err != nil {
						return err
					}

					repository := store.NewMongo()

					translator := linecode.NewTranslator(repository, cfg.Ingest.ReferenceRefresh())
					translator.LoadLegacyMap(cfg.Ingest.LegacyMapPath)

					worker := &Worker{
						Feed:       feed.NewClient(cfg.Feed.URL, cfg.Feed.UserAgent, cfg.Feed.Timeout()),
						Translator: translator,
						Positions:  repository,

						Interval:     cfg.Feed.Interval(),
						Retention:    cfg.Ingest.Retention(),
						FeedTimezone: cfg.Feed.Timezone(),
					}

					go StartStatsServer(cfg.Ingest.StatsListen)

					ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
					defer stop()

					worker.Run(ctx)

					return nil
				},
			},
		},
	}
}
