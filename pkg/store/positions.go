package store

import (
	"context"
	"regexp"
	"time"

	"github.com/bustracker/bustracker/pkg/database"
	"github.com/bustracker/bustracker/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
)

// Mongo implements the repositories on top of the shared MongoDB connection.
type Mongo struct{}

func NewMongo() Mongo {
	return Mongo{}
}

func (m Mongo) AppendPositions(ctx context.Context, positions []transit.VehiclePosition) error {
	documents := make([]interface{}, 0, len(positions))
	for _, position := range positions {
		documents = append(documents, position)
	}

	positionsCollection := database.GetCollection("vehicle_positions")
	_, err := positionsCollection.InsertMany(ctx, documents)

	return err
}

func (m Mongo) PositionsForLine(ctx context.Context, lineSubstring string, since time.Time) ([]transit.VehiclePosition, error) {
	positionsCollection := database.GetCollection("vehicle_positions")

	query := bson.M{
		"linenumber": caseInsensitiveContains(lineSubstring),
		"timestamp":  bson.M{"$gte": since},
	}

	cursor, err := positionsCollection.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	var positions []transit.VehiclePosition
	if err := cursor.All(ctx, &positions); err != nil {
		return nil, err
	}

	return positions, nil
}

func (m Mongo) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	positionsCollection := database.GetCollection("vehicle_positions")

	result, err := positionsCollection.DeleteMany(ctx, bson.M{
		"timestamp": bson.M{"$lt": threshold},
	})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}

func caseInsensitiveContains(substring string) bson.M {
	return bson.M{
		"$regex":   regexp.QuoteMeta(substring),
		"$options": "i",
	}
}
