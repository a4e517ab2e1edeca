package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createIndexes() {
	createReferenceIndexes()
	createPositionIndexes()
}

func createReferenceIndexes() {
	// Stops
	stopsCollection := GetCollection("stops")
	stopsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "code", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "location.coordinates", Value: "2d"}},
		},
	}

	opts := options.CreateIndexes()
	_, err := stopsCollection.Indexes().CreateMany(context.Background(), stopsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	// Lines
	linesCollection := GetCollection("lines")
	linesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "externalid", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "displaynumber", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = linesCollection.Indexes().CreateMany(context.Background(), linesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	// Line / stop relations
	lineStopsCollection := GetCollection("line_stops")
	lineStopsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "stopcode", Value: 1},
				{Key: "linedisplaynumber", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "linedisplaynumber", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = lineStopsCollection.Indexes().CreateMany(context.Background(), lineStopsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createPositionIndexes() {
	positionsCollection := GetCollection("vehicle_positions")
	_, err := positionsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "linenumber", Value: 1},
				{Key: "timestamp", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "timestamp", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
