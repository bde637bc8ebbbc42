package history

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/creatorstation/tweetbot/internal/models"
)

const runsCollection = "job_runs"

type MongoRecorder struct {
	collection *mongo.Collection
}

func NewMongoRecorder(database *mongo.Database) *MongoRecorder {
	return &MongoRecorder{collection: database.Collection(runsCollection)}
}

func (r *MongoRecorder) Record(ctx context.Context, run models.JobRun) error {
	_, err := r.collection.InsertOne(ctx, run)
	return err
}

func (r *MongoRecorder) Recent(ctx context.Context, job string, limit int) ([]models.JobRun, error) {
	filter := bson.M{}
	if job != "" {
		filter["job"] = job
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []models.JobRun
	if err = cursor.All(ctx, &runs); err != nil {
		return nil, err
	}

	return runs, nil
}
