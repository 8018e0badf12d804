package persistence

import (
	"context"

	"scriptgo/domain/model"
	"scriptgo/domain/repository"
	"scriptgo/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const generationAttemptsCollection = "generation_attempts"

// GenerationLogRepository writes provider attempts to MongoDB.
// A nil client turns every call into a no-op.
type GenerationLogRepository struct {
	mongoDb *mongo.Client
	dbName  string
}

func NewGenerationLogRepository(db *mongo.Client, dbName string) repository.IGenerationLog {
	if dbName == "" {
		dbName = "scriptgo"
	}
	return &GenerationLogRepository{mongoDb: db, dbName: dbName}
}

func (r *GenerationLogRepository) collection() *mongo.Collection {
	return r.mongoDb.Database(r.dbName).Collection(generationAttemptsCollection)
}

func (r *GenerationLogRepository) Record(ctx context.Context, attempts ...model.GenerationAttempt) error {
	if r.mongoDb == nil || len(attempts) == 0 {
		return nil
	}
	if _, err := r.collection().InsertMany(ctx, attempts); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while recording generation attempts")
		return err
	}
	return nil
}

func (r *GenerationLogRepository) ListRecent(ctx context.Context, userID string, limit int64) ([]model.GenerationAttempt, error) {
	if r.mongoDb == nil {
		logger.GetLogger().Info("MongoDB client is nil - generation log unavailable")
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection().Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while fetching generation attempts")
		return nil, err
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
		}
	}(cursor, ctx)

	var attempts []model.GenerationAttempt
	for cursor.Next(ctx) {
		var a model.GenerationAttempt
		if err := cursor.Decode(&a); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while decoding")
			continue
		}
		attempts = append(attempts, a)
	}
	return attempts, cursor.Err()
}
