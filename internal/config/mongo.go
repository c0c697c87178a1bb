package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	// Create indexes
	err = createIndexes(client, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	// Banners: the active-list query filters on is_active and sorts by order
	bannersCollection := db.Collection("banners")
	bannerIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "order", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
	_, err := bannersCollection.Indexes().CreateMany(context.Background(), bannerIndexes)
	if err != nil {
		return err
	}

	// Legal pages are keyed by page type
	legalPagesCollection := db.Collection("legal_pages")
	legalPageIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "page_type", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err = legalPagesCollection.Indexes().CreateMany(context.Background(), legalPageIndexes)
	if err != nil {
		return err
	}

	// Users collection indexes
	usersCollection := db.Collection("users")
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err = usersCollection.Indexes().CreateMany(context.Background(), userIndexes)
	if err != nil {
		return err
	}

	// Products collection indexes
	productsCollection := db.Collection("products")
	productIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "category_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	_, err = productsCollection.Indexes().CreateMany(context.Background(), productIndexes)
	if err != nil {
		return err
	}

	// Categories collection indexes
	categoriesCollection := db.Collection("categories")
	categoryIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err = categoriesCollection.Indexes().CreateMany(context.Background(), categoryIndexes)
	if err != nil {
		return err
	}

	return nil
}
