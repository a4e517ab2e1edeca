package store

import (
	"context"
	"regexp"

	"github.com/bustracker/bustracker/pkg/database"
	"github.com/bustracker/bustracker/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxStopResults = 20

func (m Mongo) FindStop(ctx context.Context, code string) (*transit.Stop, error) {
	stopsCollection := database.GetCollection("stops")

	var stop *transit.Stop
	err := stopsCollection.FindOne(ctx, bson.M{"code": code}).Decode(&stop)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return stop, nil
}

func (m Mongo) SearchStops(ctx context.Context, query string) ([]transit.Stop, error) {
	stopsCollection := database.GetCollection("stops")

	filter := bson.M{
		"$or": bson.A{
			bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}},
			bson.M{"code": query},
		},
	}

	cursor, err := stopsCollection.Find(ctx, filter, options.Find().SetLimit(maxStopResults))
	if err != nil {
		return nil, err
	}

	var stops []transit.Stop
	if err := cursor.All(ctx, &stops); err != nil {
		return nil, err
	}

	return stops, nil
}
