package ingest

import (
	"context"
	"time"

	"github.com/bustracker/bustracker/pkg/feed"
	"github.com/bustracker/bustracker/pkg/linecode"
	"github.com/bustracker/bustracker/pkg/store"
	"github.com/bustracker/bustracker/pkg/transit"
	"github.com/rs/zerolog/log"
)

// FeedSource downloads one raw feed payload.
type FeedSource interface {
	Fetch(ctx context.Context) (string, error)
}

// Worker runs the ingestion cycle: refresh the line translator, fetch the
// feed, parse, translate, persist, sweep old history. Strictly sequential,
// one tick at a time; nothing that happens inside a tick stops the loop.
type Worker struct {
	Feed       FeedSource
	Translator *linecode.Translator
	Positions  store.PositionRepository

	Interval     time.Duration
	Retention    time.Duration
	FeedTimezone *time.Location
}

// Run ticks until the context is cancelled. A tick always completes (or
// fails) before the wait for the next one starts, so ticks never overlap.
func (w *Worker) Run(ctx context.Context) {
	log.Info().
		Dur("interval", w.Interval).
		Dur("retention", w.Retention).
		Msg("Position ingest worker started")

	for {
		w.RunCycle(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("Position ingest worker stopping")
			return
		case <-time.After(w.Interval):
		}
	}
}

// RunCycle performs a single tick.
func (w *Worker) RunCycle(ctx context.Context) {
	cycleStart := time.Now()
	cyclesTotal.Inc()

	w.Translator.RefreshIfStale(ctx)

	ingested := w.ingestPositions(ctx)

	w.sweepOldPositions(ctx)

	cycleDuration.Observe(time.Since(cycleStart).Seconds())

	if ingested > 0 {
		log.Info().
			Int("positions", ingested).
			Dur("duration", time.Since(cycleStart)).
			Msg("Ingest cycle complete")
	}
}

func (w *Worker) ingestPositions(ctx context.Context) int {
	payload, err := w.Feed.Fetch(ctx)
	if err != nil {
		feedFailuresTotal.Inc()
		log.Error().Err(err).Msg("Failed to fetch position feed")
		return 0
	}

	rawPositions, skipped := feed.ParsePayload(payload, w.FeedTimezone)
	if skipped > 0 {
		rowsSkippedTotal.Add(float64(skipped))
		log.Debug().Int("rows", skipped).Msg("Skipped malformed feed rows")
	}

	if len(rawPositions) == 0 {
		log.Warn().Msg("No valid positions in feed payload")
		return 0
	}

	positions := make([]transit.VehiclePosition, 0, len(rawPositions))
	for _, raw := range rawPositions {
		positions = append(positions, transit.VehiclePosition{
			Timestamp:     raw.RecordedAt,
			LineNumber:    w.Translator.Translate(raw.RawLineCode),
			VehicleNumber: raw.VehicleID,
			Location:      transit.NewLocation(raw.Latitude, raw.Longitude),
		})
	}

	if err := w.Positions.AppendPositions(ctx, positions); err != nil {
		log.Error().Err(err).Msg("Failed to store positions")
		return 0
	}

	positionsIngestedTotal.Add(float64(len(positions)))

	return len(positions)
}

func (w *Worker) sweepOldPositions(ctx context.Context) {
	threshold := time.Now().UTC().Add(-w.Retention)

	deleted, err := w.Positions.DeleteOlderThan(ctx, threshold)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep old positions")
		return
	}

	if deleted > 0 {
		positionsSweptTotal.Add(float64(deleted))
		log.Info().Int64("positions", deleted).Msg("Swept old positions")
	}
}
