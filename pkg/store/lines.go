package store

import (
	"context"
	"regexp"
	"sort"

	"github.com/bustracker/bustracker/pkg/database"
	"github.com/bustracker/bustracker/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxLineResults = 30

func (m Mongo) AllLines(ctx context.Context) ([]transit.Line, error) {
	linesCollection := database.GetCollection("lines")

	cursor, err := linesCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var lines []transit.Line
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, err
	}

	return lines, nil
}

func (m Mongo) SearchLines(ctx context.Context, query string) ([]transit.Line, error) {
	linesCollection := database.GetCollection("lines")

	contains := bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}
	filter := bson.M{
		"$or": bson.A{
			bson.M{"displaynumber": contains},
			bson.M{"name": contains},
		},
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "displaynumber", Value: 1}}).
		SetLimit(maxLineResults)

	cursor, err := linesCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}

	var lines []transit.Line
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, err
	}

	return lines, nil
}

func (m Mongo) LineServesStop(ctx context.Context, stopCode string, lineSubstring string) (bool, error) {
	lineStopsCollection := database.GetCollection("line_stops")

	count, err := lineStopsCollection.CountDocuments(ctx, bson.M{
		"stopcode":          stopCode,
		"linedisplaynumber": caseInsensitiveContains(lineSubstring),
	})
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (m Mongo) LinesAtStop(ctx context.Context, stopCode string) ([]transit.Line, error) {
	lineStopsCollection := database.GetCollection("line_stops")

	cursor, err := lineStopsCollection.Find(ctx, bson.M{"stopcode": stopCode})
	if err != nil {
		return nil, err
	}

	var lineStops []transit.LineStop
	if err := cursor.All(ctx, &lineStops); err != nil {
		return nil, err
	}

	// A line usually calls at a stop on several trips, collapse to one entry
	seen := map[string]bool{}
	var lines []transit.Line
	for _, lineStop := range lineStops {
		if seen[lineStop.LineDisplayNumber] {
			continue
		}
		seen[lineStop.LineDisplayNumber] = true

		lines = append(lines, transit.Line{
			DisplayNumber: lineStop.LineDisplayNumber,
			Name:          lineStop.LineName,
		})
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].DisplayNumber < lines[j].DisplayNumber
	})

	return lines, nil
}

func (m Mongo) StopsOnLine(ctx context.Context, lineSubstring string) ([]StopOnLine, error) {
	lineStopsCollection := database.GetCollection("line_stops")

	findOptions := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})
	cursor, err := lineStopsCollection.Find(ctx, bson.M{
		"linedisplaynumber": caseInsensitiveContains(lineSubstring),
	}, findOptions)
	if err != nil {
		return nil, err
	}

	var lineStops []transit.LineStop
	if err := cursor.All(ctx, &lineStops); err != nil {
		return nil, err
	}

	if len(lineStops) == 0 {
		return nil, nil
	}

	stopCodes := make([]string, 0, len(lineStops))
	for _, lineStop := range lineStops {
		stopCodes = append(stopCodes, lineStop.StopCode)
	}

	stopsCollection := database.GetCollection("stops")
	stopsCursor, err := stopsCollection.Find(ctx, bson.M{"code": bson.M{"$in": stopCodes}})
	if err != nil {
		return nil, err
	}

	var stops []transit.Stop
	if err := stopsCursor.All(ctx, &stops); err != nil {
		return nil, err
	}

	stopsByCode := map[string]transit.Stop{}
	for _, stop := range stops {
		stopsByCode[stop.Code] = stop
	}

	var results []StopOnLine
	for _, lineStop := range lineStops {
		stop, exists := stopsByCode[lineStop.StopCode]
		if !exists {
			continue
		}

		results = append(results, StopOnLine{
			StopCode: stop.Code,
			StopName: stop.Name,
			Sequence: lineStop.Sequence,
			Location: stop.Location,
		})
	}

	return results, nil
}
