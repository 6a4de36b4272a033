package database

import (
	"context"
	"fmt"
	"time"

	"huskerbot-go/logging"
	"huskerbot-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPickRepository stores one document per (game, user) pair
type MongoPickRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoPickRepository creates the picks repository and ensures its indexes
func NewMongoPickRepository(db *MongoDB) *MongoPickRepository {
	collection := db.GetCollection("picks")
	logger := logging.WithPrefix("mongo_pick_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "game_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "season", Value: 1}, {Key: "week", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "game_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "season", Value: 1}, {Key: "week", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Errorf("Failed to create indexes on picks collection: %v", err)
	}

	return &MongoPickRepository{
		collection: collection,
		logger:     logger,
	}
}

// Upsert inserts or replaces the pick for its (game, user) pair. Last write
// wins; there is no optimistic-concurrency check.
func (r *MongoPickRepository) Upsert(ctx context.Context, pick *models.Pick) error {
	filter := bson.M{"game_id": pick.GameID, "user_id": pick.UserID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, pick, opts); err != nil {
		return fmt.Errorf("failed to upsert pick for game %d user %s: %w", pick.GameID, pick.UserID, err)
	}
	return nil
}

// UpsertMany replaces a batch of picks one row at a time (grading write-back)
func (r *MongoPickRepository) UpsertMany(ctx context.Context, picks []models.Pick) error {
	for i := range picks {
		if err := r.Upsert(ctx, &picks[i]); err != nil {
			return err
		}
	}
	return nil
}

// FindByGameAndUser returns the unique pick for a (game, user) pair, or nil
func (r *MongoPickRepository) FindByGameAndUser(ctx context.Context, gameID int, userID string) (*models.Pick, error) {
	var pick models.Pick
	err := r.collection.FindOne(ctx, bson.M{"game_id": gameID, "user_id": userID}).Decode(&pick)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find pick for game %d user %s: %w", gameID, userID, err)
	}
	return &pick, nil
}

// FindByGame returns all picks for a game
func (r *MongoPickRepository) FindByGame(ctx context.Context, gameID int) ([]models.Pick, error) {
	return r.find(ctx, bson.M{"game_id": gameID}, nil)
}

// FindByWeek returns all picks for a season/week
func (r *MongoPickRepository) FindByWeek(ctx context.Context, season, week int) ([]models.Pick, error) {
	return r.find(ctx, bson.M{"season": season, "week": week}, nil)
}

// FindBySeason returns all picks for a season
func (r *MongoPickRepository) FindBySeason(ctx context.Context, season int) ([]models.Pick, error) {
	return r.find(ctx, bson.M{"season": season}, nil)
}

// FindByUserAndWeek returns one user's picks for a season/week ordered by game
func (r *MongoPickRepository) FindByUserAndWeek(ctx context.Context, userID string, season, week int) ([]models.Pick, error) {
	filter := bson.M{"user_id": userID, "season": season, "week": week}
	opts := options.Find().SetSort(bson.D{{Key: "game_id", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoPickRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Pick, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find picks: %w", err)
	}
	defer cursor.Close(ctx)

	var picks []models.Pick
	if err := cursor.All(ctx, &picks); err != nil {
		return nil, fmt.Errorf("failed to decode picks: %w", err)
	}
	return picks, nil
}
