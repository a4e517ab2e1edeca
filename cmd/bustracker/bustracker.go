package main

import (
	"os"
	"time"

	"github.com/bustracker/bustracker/pkg/api"
	"github.com/bustracker/bustracker/pkg/dataimporter"
	"github.com/bustracker/bustracker/pkg/ingest"
	"github.com/bustracker/bustracker/pkg/prediction"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	godotenv.Load()

	if os.Getenv("BUSTRACKER_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("BUSTRACKER_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "bustracker",
		Description: "Single binary of truth for BusTracker - runs all the services",

		Commands: []*cli.Command{
			ingest.RegisterCLI(),
			api.RegisterCLI(),
			prediction.RegisterCLI(),
			dataimporter.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
