package ingest

import (
	"fmt"
	"net/http"

	"github.com/bustracker/bustracker/pkg/database"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// StartStatsServer exposes prometheus metrics and a health probe for the
// ingest worker. Runs on its own listener so the worker loop stays simple.
func StartStatsServer(listen string) {
	http.Handle("/metrics", promhttp.Handler())
	http.Handle("/health", &healthHandler{})

	log.Info().Str("listen", listen).Msg("Ingest stats server listening")
	if err := http.ListenAndServe(listen, nil); err != nil {
		log.Fatal().Err(err).Msg("Ingest stats server failed")
	}
}

type healthHandler struct{}

func (h *healthHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	err := database.MongoGlobalInstance.Client.Ping(request.Context(), nil)
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err.Error())
		return
	}

	fmt.Fprint(writer, "OK")
}
