package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const databaseName = "wayfare"

// Database bundles the Mongo client with the four planner collections.
// It is constructed once in main and passed to whoever needs it; there
// is no package-level handle. Connect/Close lifecycle belongs to the
// process entry point.
type Database struct {
	client *mongo.Client

	Itineraries *mongo.Collection
	Slots       *mongo.Collection
	Locations   *mongo.Collection
	Categories  *mongo.Collection
}

// Connect dials Mongo at uri and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	d := client.Database(databaseName)
	return &Database{
		client:      client,
		Itineraries: d.Collection("itineraries"),
		Slots:       d.Collection("itinerarySlots"),
		Locations:   d.Collection("locations"),
		Categories:  d.Collection("categories"),
	}, nil
}

func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the planner relies on: unique
// business ids per collection, the compound slot key, and the lookup
// indexes behind location browsing and the slot→location reference.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{d.Itineraries, mongo.IndexModel{
			Keys:    bson.D{{Key: "itineraryID", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{d.Slots, mongo.IndexModel{
			Keys:    bson.D{{Key: "itineraryID", Value: 1}, {Key: "slotID", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{d.Slots, mongo.IndexModel{
			Keys: bson.D{{Key: "cardID", Value: 1}},
		}},
		{d.Locations, mongo.IndexModel{
			Keys:    bson.D{{Key: "locationID", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{d.Locations, mongo.IndexModel{
			Keys: bson.D{{Key: "category", Value: 1}},
		}},
		{d.Locations, mongo.IndexModel{
			Keys: bson.D{{Key: "starRating", Value: -1}},
		}},
		{d.Categories, mongo.IndexModel{
			Keys:    bson.D{{Key: "categoryID", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}
