package dataimporter

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"sort"

	"github.com/bustracker/bustracker/pkg/database"
	"github.com/bustracker/bustracker/pkg/transit"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"go.mongodb.org/mongo-driver/bson"
)

const insertBatchSize = 5000
const insertWorkers = 4

type gtfsStop struct {
	StopID    string  `csv:"stop_id"`
	StopName  string  `csv:"stop_name"`
	Latitude  float64 `csv:"stop_lat"`
	Longitude float64 `csv:"stop_lon"`
}

type gtfsRoute struct {
	RouteID   string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
}

type gtfsTrip struct {
	TripID  string `csv:"trip_id"`
	RouteID string `csv:"route_id"`
}

type gtfsStopTime struct {
	TripID       string `csv:"trip_id"`
	StopID       string `csv:"stop_id"`
	StopSequence int    `csv:"stop_sequence"`
}

type schedule struct {
	Stops     []gtfsStop
	Routes    []gtfsRoute
	Trips     []gtfsTrip
	StopTimes []gtfsStopTime
}

func (s *schedule) parseArchive(path string) error {
	// Some feeds ship records with missing trailing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return err
	}

	fileMap := map[string]interface{}{
		"stops.txt":      &s.Stops,
		"routes.txt":     &s.Routes,
		"trips.txt":      &s.Trips,
		"stop_times.txt": &s.StopTimes,
	}

	for _, zipFile := range archive.File {
		destination, exists := fileMap[zipFile.Name]
		if !exists {
			continue
		}

		log.Info().Str("file", zipFile.Name).Msg("Loading file")

		fileReader, err := zipFile.Open()
		if err != nil {
			return err
		}

		err = gocsv.Unmarshal(fileReader, destination)
		fileReader.Close()
		if err != nil {
			log.Error().Str("file", zipFile.Name).Err(err).Msg("Failed to parse csv file")
			return err
		}
	}

	return nil
}

// importSchedule converts the parsed GTFS schedule into stops, lines and
// denormalised line/stop relations and replaces the reference collections.
func (s *schedule) importSchedule(ctx context.Context) error {
	stops := make([]interface{}, 0, len(s.Stops))
	for _, stop := range s.Stops {
		stops = append(stops, transit.Stop{
			Code:     stop.StopID,
			Name:     stop.StopName,
			Location: transit.NewLocation(stop.Latitude, stop.Longitude),
		})
	}

	lines := make([]interface{}, 0, len(s.Routes))
	routesByID := map[string]gtfsRoute{}
	for _, route := range s.Routes {
		routesByID[route.RouteID] = route
		lines = append(lines, transit.Line{
			ExternalID:    route.RouteID,
			DisplayNumber: route.ShortName,
			Name:          route.LongName,
		})
	}

	lineStops := s.buildLineStops(routesByID)

	if err := replaceCollection(ctx, "stops", stops); err != nil {
		return err
	}
	log.Info().Int("stops", len(stops)).Msg("Imported stops")

	if err := replaceCollection(ctx, "lines", lines); err != nil {
		return err
	}
	log.Info().Int("lines", len(lines)).Msg("Imported lines")

	if err := replaceCollection(ctx, "line_stops", lineStops); err != nil {
		return err
	}
	log.Info().Int("relations", len(lineStops)).Msg("Imported line stop relations")

	return nil
}

// buildLineStops walks trips × stop_times down to the unique line/stop pairs,
// keeping the lowest sequence a line calls at each stop with.
func (s *schedule) buildLineStops(routesByID map[string]gtfsRoute) []interface{} {
	tripToRoute := map[string]string{}
	for _, trip := range s.Trips {
		tripToRoute[trip.TripID] = trip.RouteID
	}

	type lineStopKey struct {
		stopCode   string
		lineNumber string
	}

	relations := map[lineStopKey]transit.LineStop{}
	for _, stopTime := range s.StopTimes {
		routeID, exists := tripToRoute[stopTime.TripID]
		if !exists {
			continue
		}

		route, exists := routesByID[routeID]
		if !exists {
			continue
		}

		key := lineStopKey{stopCode: stopTime.StopID, lineNumber: route.ShortName}

		if existing, exists := relations[key]; exists && existing.Sequence <= stopTime.StopSequence {
			continue
		}

		relations[key] = transit.LineStop{
			StopCode:          stopTime.StopID,
			LineDisplayNumber: route.ShortName,
			LineName:          route.LongName,
			Sequence:          stopTime.StopSequence,
		}
	}

	lineStops := make([]transit.LineStop, 0, len(relations))
	for _, relation := range relations {
		lineStops = append(lineStops, relation)
	}

	sort.Slice(lineStops, func(i, j int) bool {
		if lineStops[i].LineDisplayNumber != lineStops[j].LineDisplayNumber {
			return lineStops[i].LineDisplayNumber < lineStops[j].LineDisplayNumber
		}
		return lineStops[i].Sequence < lineStops[j].Sequence
	})

	documents := make([]interface{}, 0, len(lineStops))
	for _, lineStop := range lineStops {
		documents = append(documents, lineStop)
	}

	return documents
}

func replaceCollection(ctx context.Context, collectionName string, documents []interface{}) error {
	collection := database.GetCollection(collectionName)

	if _, err := collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}

	if len(documents) == 0 {
		return nil
	}

	insertPool := pool.New().WithMaxGoroutines(insertWorkers).WithErrors()

	for start := 0; start < len(documents); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(documents) {
			end = len(documents)
		}

		batch := documents[start:end]
		insertPool.Go(func() error {
			_, err := collection.InsertMany(ctx, batch)
			return err
		})
	}

	return insertPool.Wait()
}
