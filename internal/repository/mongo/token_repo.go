package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vedran77/ripple/internal/domain"
)

// TokenRepo persists the access-token whitelist.
type TokenRepo struct {
	tokens *mongo.Collection
}

func NewTokenRepo(db *mongo.Database) *TokenRepo {
	return &TokenRepo{tokens: db.Collection(tokensCollection)}
}

type tokenDoc struct {
	Token     string    `bson:"token"`
	UserID    string    `bson:"user_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *TokenRepo) Insert(ctx context.Context, entry *domain.AccessToken) error {
	doc := tokenDoc{
		Token:     entry.Token,
		UserID:    entry.UserID.String(),
		ExpiresAt: entry.ExpiresAt,
		CreatedAt: entry.CreatedAt,
	}
	_, err := r.tokens.InsertOne(ctx, doc)
	return err
}

func (r *TokenRepo) Get(ctx context.Context, tokenStr string) (*domain.AccessToken, error) {
	var doc tokenDoc
	err := r.tokens.FindOne(ctx, bson.D{{Key: "token", Value: tokenStr}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.AccessToken{
		Token:     doc.Token,
		UserID:    userID,
		ExpiresAt: doc.ExpiresAt,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *TokenRepo) Delete(ctx context.Context, tokenStr string) error {
	_, err := r.tokens.DeleteOne(ctx, bson.D{{Key: "token", Value: tokenStr}})
	return err
}

// DeleteByUser removes every whitelist entry owned by the user.
func (r *TokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.tokens.DeleteMany(ctx, bson.D{{Key: "user_id", Value: userID.String()}})
	return err
}
