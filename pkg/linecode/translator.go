package linecode

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bustracker/bustracker/pkg/transit"
	"github.com/rs/zerolog/log"
)

// LineSource supplies the canonical line reference data, usually the lines
// collection in the database.
type LineSource interface {
	AllLines(ctx context.Context) ([]transit.Line, error)
}

// Translator maps raw feed line codes to canonical display numbers through
// two layers: a static legacy table loaded once from file, and a reference
// cache refreshed periodically from the line source. A lookup miss at either
// layer passes the code through unchanged.
//
// One writer (the ingest cycle) and any number of readers share the
// reference cache, so it is swapped in whole as an atomic snapshot.
type Translator struct {
	Source          LineSource
	RefreshInterval time.Duration

	legacyMap map[string]string
	reference atomic.Pointer[referenceCache]
}

type referenceCache struct {
	entries  map[string]string
	loadedAt time.Time
}

func NewTranslator(source LineSource, refreshInterval time.Duration) *Translator {
	translator := &Translator{
		Source:          source,
		RefreshInterval: refreshInterval,

		legacyMap: map[string]string{},
	}
	translator.reference.Store(&referenceCache{entries: map[string]string{}})

	return translator
}

// LoadLegacyMap reads the `internalId;displayNumber` file. A missing or
// unreadable file leaves the legacy layer empty, which degrades to pure
// identity translation.
func (t *Translator) LoadLegacyMap(path string) {
	file, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Legacy line map not loaded")
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to read legacy line map")
		return
	}

	legacyMap := map[string]string{}
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if len(record) < 2 {
			continue
		}

		legacyMap[strings.TrimSpace(record[0])] = strings.TrimSpace(record[1])
	}

	t.legacyMap = legacyMap
	log.Info().Int("lines", len(legacyMap)).Str("path", path).Msg("Legacy line map loaded")
}

// RefreshIfStale rebuilds the reference cache from the line source when it
// is older than the refresh interval. Failures keep the previous snapshot.
func (t *Translator) RefreshIfStale(ctx context.Context) {
	current := t.reference.Load()
	if time.Since(current.loadedAt) < t.RefreshInterval {
		return
	}

	lines, err := t.Source.AllLines(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to refresh line reference cache, keeping previous")
		return
	}

	// Map both the external id and the display number itself so already
	// canonical codes translate to themselves.
	entries := map[string]string{}
	for _, line := range lines {
		entries[line.ExternalID] = line.DisplayNumber
		entries[line.DisplayNumber] = line.DisplayNumber
	}

	t.reference.Store(&referenceCache{
		entries:  entries,
		loadedAt: time.Now(),
	})

	log.Info().Int("lines", len(lines)).Msg("Refreshed line reference cache")
}

// Translate maps a raw feed code to its canonical display number. Pure
// lookup, no I/O.
func (t *Translator) Translate(rawCode string) string {
	code := rawCode

	if display, exists := t.legacyMap[code]; exists {
		code = display
	}

	if display, exists := t.reference.Load().entries[code]; exists {
		code = display
	}

	return code
}
