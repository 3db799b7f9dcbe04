package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var ErrDuplicate = errors.New("duplicate document")

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	commentsCollection = "comments"
	tokensCollection   = "access_tokens"
)

// Bootstrap creates the indexes the repositories rely on. Call once at
// startup.
func Bootstrap(ctx context.Context, db *mongo.Database) error {
	users := db.Collection(usersCollection)
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users.username index: %w", err)
	}
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users.email index: %w", err)
	}

	tokens := db.Collection(tokensCollection)
	if _, err := tokens.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("access_tokens.token index: %w", err)
	}
	// TTL index: Mongo reaps expired ledger entries on its own; lookups
	// still check expiry because the reaper is not immediate.
	if _, err := tokens.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}); err != nil {
		return fmt.Errorf("access_tokens.expires_at TTL index: %w", err)
	}

	posts := db.Collection(postsCollection)
	if _, err := posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tags", Value: 1}},
	}); err != nil {
		return fmt.Errorf("posts.tags index: %w", err)
	}

	comments := db.Collection(commentsCollection)
	if _, err := comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("comments.post_id index: %w", err)
	}

	return nil
}

func byID(id uuid.UUID) bson.D {
	return bson.D{{Key: "_id", Value: id.String()}}
}

func isDuplicateKeyError(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}

func idsToStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func stringsToIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
