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

type CommentRepo struct {
	comments *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) *CommentRepo {
	return &CommentRepo{comments: db.Collection(commentsCollection)}
}

type commentDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	PostID    string    `bson:"post_id"`
	Text      string    `bson:"text"`
	Likes     []string  `bson:"likes"`
	CreatedAt time.Time `bson:"created_at"`
}

func toCommentDoc(c *domain.Comment) commentDoc {
	return commentDoc{
		ID:        c.ID.String(),
		UserID:    c.UserID.String(),
		PostID:    c.PostID.String(),
		Text:      c.Text,
		Likes:     idsToStrings(c.Likes),
		CreatedAt: c.CreatedAt,
	}
}

func (d *commentDoc) toDomain() *domain.Comment {
	id, _ := uuid.Parse(d.ID)
	userID, _ := uuid.Parse(d.UserID)
	postID, _ := uuid.Parse(d.PostID)
	return &domain.Comment{
		ID:        id,
		UserID:    userID,
		PostID:    postID,
		Text:      d.Text,
		Likes:     stringsToIDs(d.Likes),
		CreatedAt: d.CreatedAt,
	}
}

func (r *CommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	_, err := r.comments.InsertOne(ctx, toCommentDoc(comment))
	return err
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var doc commentDoc
	err := r.comments.FindOne(ctx, byID(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CommentRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idsToStrings(ids)}}}}
	cur, err := r.comments.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byIDs := make(map[uuid.UUID]domain.Comment, len(ids))
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		c := doc.toDomain()
		byIDs[c.ID] = *c
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := byIDs[id]; ok {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.comments.DeleteOne(ctx, byID(id))
	return err
}

func (r *CommentRepo) AddLike(ctx context.Context, commentID, userID uuid.UUID) error {
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "likes", Value: userID.String()}}}}
	_, err := r.comments.UpdateOne(ctx, byID(commentID), update)
	return err
}

func (r *CommentRepo) RemoveLike(ctx context.Context, commentID, userID uuid.UUID) error {
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "likes", Value: userID.String()}}}}
	_, err := r.comments.UpdateOne(ctx, byID(commentID), update)
	return err
}
