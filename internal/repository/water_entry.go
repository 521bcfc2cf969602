package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/teerapatl/aqualog-api/internal/model"
)

// WaterEntryRepository defines the interface for water log database operations.
type WaterEntryRepository interface {
	CreateEntry(ctx context.Context, entry *model.WaterEntry) (*model.WaterEntry, error)
	GetEntry(ctx context.Context, id string) (*model.WaterEntry, error)
	ListEntries(ctx context.Context, userID bson.ObjectID, params ListEntriesParams) ([]*model.WaterEntry, error)
	UpdateEntry(ctx context.Context, id string, params UpdateEntryParams) (*model.WaterEntry, error)
	DeleteEntry(ctx context.Context, id string) error

	// AggregateStats computes totals over the user's entries in [from, to].
	AggregateStats(ctx context.Context, userID bson.ObjectID, from, to time.Time) (*WaterStats, error)
}

// ListEntriesParams defines the optional date range filter for listing
// entries. Nil bounds are open-ended.
type ListEntriesParams struct {
	From *time.Time
	To   *time.Time
}

// UpdateEntryParams defines the optional parameters for updating an entry.
// Only the fields that are not nil will be updated.
type UpdateEntryParams struct {
	Glasses *int
	Date    *time.Time
	Notes   *string
}

// WaterStats holds the aggregated intake over a date range.
type WaterStats struct {
	TotalGlasses   int     `bson:"total_glasses"   json:"totalGlasses"`
	Entries        int     `bson:"entries"         json:"entries"`
	AverageGlasses float64 `bson:"average_glasses" json:"averageGlasses"`
}

const waterEntryCollection = "water_entries"

type waterEntryMongoRepository struct {
	db *mongo.Database
}

// NewWaterEntryMongoRepository creates a new MongoDB repository for water
// entries with the (user_id, date desc) access path indexed.
func NewWaterEntryMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) WaterEntryRepository {
	collection := db.Collection(waterEntryCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "date", Value: -1},
			},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create water entry indexes")
	}

	return &waterEntryMongoRepository{db: db}
}

func (r *waterEntryMongoRepository) CreateEntry(
	ctx context.Context,
	entry *model.WaterEntry,
) (*model.WaterEntry, error) {
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.db.Collection(waterEntryCollection).InsertOne(ctx, entry)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		entry.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return entry, nil
}

func (r *waterEntryMongoRepository) GetEntry(ctx context.Context, id string) (*model.WaterEntry, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	result := r.db.Collection(waterEntryCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var entry model.WaterEntry
	if err := result.Decode(&entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *waterEntryMongoRepository) ListEntries(
	ctx context.Context,
	userID bson.ObjectID,
	params ListEntriesParams,
) ([]*model.WaterEntry, error) {
	filter := bson.M{"user_id": userID}

	dateFilter := bson.M{}
	if params.From != nil {
		dateFilter["$gte"] = *params.From
	}
	if params.To != nil {
		dateFilter["$lte"] = *params.To
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.db.Collection(waterEntryCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []*model.WaterEntry{}
	for cursor.Next(ctx) {
		var entry model.WaterEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *waterEntryMongoRepository) UpdateEntry(
	ctx context.Context,
	id string,
	params UpdateEntryParams,
) (*model.WaterEntry, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	updateMap := bson.M{}
	if params.Glasses != nil {
		updateMap["glasses"] = *params.Glasses
	}
	if params.Date != nil {
		updateMap["date"] = *params.Date
	}
	if params.Notes != nil {
		updateMap["notes"] = *params.Notes
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no entry fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(waterEntryCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var entry model.WaterEntry
	if err := result.Decode(&entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *waterEntryMongoRepository) DeleteEntry(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	result, err := r.db.Collection(waterEntryCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (r *waterEntryMongoRepository) AggregateStats(
	ctx context.Context,
	userID bson.ObjectID,
	from, to time.Time,
) (*WaterStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"user_id": userID,
			"date":    bson.M{"$gte": from, "$lte": to},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"total_glasses":   bson.M{"$sum": "$glasses"},
			"entries":         bson.M{"$sum": 1},
			"average_glasses": bson.M{"$avg": "$glasses"},
		}}},
	}

	cursor, err := r.db.Collection(waterEntryCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		var stats WaterStats
		if err := cursor.Decode(&stats); err != nil {
			return nil, err
		}
		return &stats, nil
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	// No entries in range.
	return &WaterStats{}, nil
}
