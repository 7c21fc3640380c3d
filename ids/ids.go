// Package ids implements the planner's business-id scheme: every
// collection (itineraries, slots, locations, categories) carries its
// own zero-padded decimal sequence starting at "001".
package ids

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ids are padded to three digits. Past 999 they keep their natural
// width, so lexicographic max-scans stop matching numeric order there.
// Known limitation carried over from the existing data set.
const width = 3

// Format renders n as a sequence id.
func Format(n int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// Next returns the id following last. The empty string starts a
// sequence at Format(1).
func Next(last string) (string, error) {
	if last == "" {
		return Format(1), nil
	}
	n, err := strconv.Atoi(last)
	if err != nil {
		return "", fmt.Errorf("malformed sequence id %q: %w", last, err)
	}
	return Format(n + 1), nil
}

// Allocator hands out the next id for a collection keyed on field.
// Injected so tests can supply deterministic ids and a deployment can
// later swap in an atomic counter without touching the schedulers.
type Allocator interface {
	NextID(ctx context.Context, coll *mongo.Collection, field string) (string, error)
}

// Sequential reads the current maximum id and increments it. Read and
// later insert are separate operations, so two concurrent writers can
// allocate the same id; callers accept last-write-wins semantics.
type Sequential struct{}

func (Sequential) NextID(ctx context.Context, coll *mongo.Collection, field string) (string, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: field, Value: -1}}).
		SetProjection(bson.M{field: 1})

	var doc bson.M
	err := coll.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Format(1), nil
	}
	if err != nil {
		return "", err
	}
	last, _ := doc[field].(string)
	return Next(last)
}
