package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: email_unique index created")
	return nil
}

// EnsureOrderIndexes creates the uniqueness guarantees payment reconciliation
// relies on: a duplicate insert for the same transaction ID must fail so the
// earlier order can be re-read and returned instead.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "txnId", Value: 1}},
			Options: options.Index().
				SetName("txnId_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().
				SetName("orderNumber_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"orderNumber": bson.M{
						"$exists": true,
					},
				}),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_index"),
		},
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: order indexes created")
	return nil
}

func EnsureArticleIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("articles").Indexes()

	slugIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().
			SetName("slug_unique").
			SetUnique(true),
	}

	log.Println("EnsureArticleIndexes: creating slug_unique index")
	_, err := indexes.CreateOne(ctx, slugIndex)
	if err != nil {
		log.Println("EnsureArticleIndexes: slug index error:", err)
		return err
	}
	log.Println("EnsureArticleIndexes: slug_unique index created")
	return nil
}
