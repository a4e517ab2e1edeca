package prediction

import (
	"context"

	"github.com/bustracker/bustracker/pkg/config"
	"github.com/bustracker/bustracker/pkg/database"
	"github.com/bustracker/bustracker/pkg/store"
	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "prediction",
		Usage: "Arrival prediction engine",
		Subcommands: []*cli.Command{
			{
				Name:  "test",
				Usage: "compute a single prediction and dump the result",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "stop",
						Usage:    "stop code to predict arrivals for",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "line",
						Usage:    "line number to predict arrivals for",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					if err := database.Connect(); err != nil {
						return err
					}

					repository := store.NewMongo()
					engine := &Engine{
						Stops:     repository,
						Lines:     repository,
						Positions: repository,

						Window: cfg.Prediction.Window(),
					}

					result, err := engine.Predict(context.Background(), c.String("stop"), c.String("line"))
					if err != nil {
						return err
					}

					pretty.Println(result)

					return nil
				},
			},
		},
	}
}
