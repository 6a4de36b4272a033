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

// MongoGameRepository stores one document per ESPN game ID
type MongoGameRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoGameRepository creates the games repository and ensures its indexes
func NewMongoGameRepository(db *MongoDB) *MongoGameRepository {
	collection := db.GetCollection("games")
	logger := logging.WithPrefix("mongo_game_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "season", Value: 1}, {Key: "week", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Errorf("Failed to create indexes on games collection: %v", err)
	}

	return &MongoGameRepository{
		collection: collection,
		logger:     logger,
	}
}

// Upsert inserts or fully replaces the game document keyed by its external ID
func (r *MongoGameRepository) Upsert(ctx context.Context, game *models.Game) error {
	filter := bson.M{"id": game.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, game, opts); err != nil {
		return fmt.Errorf("failed to upsert game %d: %w", game.ID, err)
	}
	return nil
}

// FindByID returns the game with the given external ID, or nil if not stored
func (r *MongoGameRepository) FindByID(ctx context.Context, gameID int) (*models.Game, error) {
	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"id": gameID}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find game %d: %w", gameID, err)
	}
	return &game, nil
}

// FindByWeek returns all games for a season/week ordered by kickoff time
func (r *MongoGameRepository) FindByWeek(ctx context.Context, season, week int) ([]models.Game, error) {
	filter := bson.M{"season": season, "week": week}
	opts := options.Find().SetSort(bson.D{
		{Key: "kickoff", Value: 1},
		{Key: "home_team", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find games for season %d week %d: %w", season, week, err)
	}
	defer cursor.Close(ctx)

	var games []models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return games, nil
}
