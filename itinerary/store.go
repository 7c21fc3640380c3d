package itinerary

import (
	"context"
	"errors"

	"wayfare/db"
	"wayfare/ids"
	"wayfare/models"
	"wayfare/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is everything the scheduler needs from persistence. The Mongo
// implementation below is the only production one; tests supply fakes.
type Store interface {
	Itinerary(ctx context.Context, itineraryID string) (*models.Itinerary, error)
	Itineraries(ctx context.Context) ([]models.Itinerary, error)
	InsertItinerary(ctx context.Context, it *models.Itinerary) error
	DeleteItinerary(ctx context.Context, itineraryID string) error
	NextItineraryID(ctx context.Context) (string, error)

	SlotsByItinerary(ctx context.Context, itineraryID string) ([]models.ItinerarySlot, error)
	InsertSlots(ctx context.Context, slots []models.ItinerarySlot) error
	DeleteSlot(ctx context.Context, slotID string) error
	DeleteSlotsByItinerary(ctx context.Context, itineraryID string) (int64, error)
	NextSlotID(ctx context.Context) (string, error)

	LocationsByIDs(ctx context.Context, locationIDs []string) ([]models.Location, error)
}

type MongoStore struct {
	db    *db.Database
	alloc ids.Allocator
}

func NewMongoStore(database *db.Database, alloc ids.Allocator) *MongoStore {
	return &MongoStore{db: database, alloc: alloc}
}

func (s *MongoStore) Itinerary(ctx context.Context, itineraryID string) (*models.Itinerary, error) {
	var it models.Itinerary
	err := s.db.Itineraries.FindOne(ctx, bson.M{"itineraryID": itineraryID}).Decode(&it)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrItineraryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *MongoStore) Itineraries(ctx context.Context) ([]models.Itinerary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "itineraryID", Value: 1}})
	return utils.FindAndDecode[models.Itinerary](ctx, s.db.Itineraries, bson.M{}, opts)
}

func (s *MongoStore) InsertItinerary(ctx context.Context, it *models.Itinerary) error {
	_, err := s.db.Itineraries.InsertOne(ctx, it)
	return err
}

func (s *MongoStore) DeleteItinerary(ctx context.Context, itineraryID string) error {
	res, err := s.db.Itineraries.DeleteOne(ctx, bson.M{"itineraryID": itineraryID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrItineraryNotFound
	}
	return nil
}

func (s *MongoStore) NextItineraryID(ctx context.Context) (string, error) {
	return s.alloc.NextID(ctx, s.db.Itineraries, "itineraryID")
}

// SlotsByItinerary returns the itinerary's slots ordered by day and
// hour, which is the order views present them in.
func (s *MongoStore) SlotsByItinerary(ctx context.Context, itineraryID string) ([]models.ItinerarySlot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "slotDate", Value: 1}, {Key: "slotTime", Value: 1}})
	return utils.FindAndDecode[models.ItinerarySlot](ctx, s.db.Slots, bson.M{"itineraryID": itineraryID}, opts)
}

// InsertSlots bulk-inserts slots. An empty batch is a no-op, not an
// error; save and copy both rely on that.
func (s *MongoStore) InsertSlots(ctx context.Context, slots []models.ItinerarySlot) error {
	if len(slots) == 0 {
		return nil
	}
	docs := make([]any, len(slots))
	for i := range slots {
		docs[i] = slots[i]
	}
	_, err := s.db.Slots.InsertMany(ctx, docs)
	return err
}

func (s *MongoStore) DeleteSlot(ctx context.Context, slotID string) error {
	res, err := s.db.Slots.DeleteOne(ctx, bson.M{"slotID": slotID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (s *MongoStore) DeleteSlotsByItinerary(ctx context.Context, itineraryID string) (int64, error) {
	res, err := s.db.Slots.DeleteMany(ctx, bson.M{"itineraryID": itineraryID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) NextSlotID(ctx context.Context) (string, error) {
	return s.alloc.NextID(ctx, s.db.Slots, "slotID")
}

// LocationsByIDs batch-fetches locations in one query; callers must
// never loop FindOne per slot.
func (s *MongoStore) LocationsByIDs(ctx context.Context, locationIDs []string) ([]models.Location, error) {
	if len(locationIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{"locationID": bson.M{"$in": locationIDs}}
	return utils.FindAndDecode[models.Location](ctx, s.db.Locations, filter)
}
