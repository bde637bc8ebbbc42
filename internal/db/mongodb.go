package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoDatabase = "tweetbot"

// ConnectMongo establishes a connection to MongoDB and returns the bot's database
func ConnectMongo(ctx context.Context, uri string) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(uri)
	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect failed: %w", err)
	}

	if err := mongoClient.Ping(ctx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return mongoClient.Database(mongoDatabase), nil
}
