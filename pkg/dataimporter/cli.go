package dataimporter

import (
	"context"

	"github.com/bustracker/bustracker/pkg/database"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Seeds static reference data",
		Subcommands: []*cli.Command{
			{
				Name:  "gtfs",
				Usage: "import stops, lines and line stop relations from a GTFS archive",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "path to the GTFS zip archive",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					gtfsSchedule := &schedule{}

					if err := gtfsSchedule.parseArchive(c.String("file")); err != nil {
						return err
					}

					log.Info().
						Int("stops", len(gtfsSchedule.Stops)).
						Int("routes", len(gtfsSchedule.Routes)).
						Int("trips", len(gtfsSchedule.Trips)).
						Int("stoptimes", len(gtfsSchedule.StopTimes)).
						Msg("Parsed GTFS archive")

					return gtfsSchedule.importSchedule(context.Background())
				},
			},
		},
	}
}
