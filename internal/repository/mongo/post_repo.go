package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vedran77/ripple/internal/domain"
)

type PostRepo struct {
	posts *mongo.Collection
}

func NewPostRepo(db *mongo.Database) *PostRepo {
	return &PostRepo{posts: db.Collection(postsCollection)}
}

type postDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Text      string    `bson:"text"`
	Tags      []string  `bson:"tags,omitempty"`
	File      string    `bson:"file,omitempty"`
	Likes     []string  `bson:"likes"`
	Comments  []string  `bson:"comments"`
	CreatedAt time.Time `bson:"created_at"`
}

func toPostDoc(p *domain.Post) postDoc {
	return postDoc{
		ID:        p.ID.String(),
		UserID:    p.UserID.String(),
		Text:      p.Text,
		Tags:      p.Tags,
		File:      p.File,
		Likes:     idsToStrings(p.Likes),
		Comments:  idsToStrings(p.Comments),
		CreatedAt: p.CreatedAt,
	}
}

func (d *postDoc) toDomain() *domain.Post {
	id, _ := uuid.Parse(d.ID)
	userID, _ := uuid.Parse(d.UserID)
	return &domain.Post{
		ID:        id,
		UserID:    userID,
		Text:      d.Text,
		Tags:      d.Tags,
		File:      d.File,
		Likes:     stringsToIDs(d.Likes),
		Comments:  stringsToIDs(d.Comments),
		CreatedAt: d.CreatedAt,
	}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	_, err := r.posts.InsertOne(ctx, toPostDoc(post))
	return err
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var doc postDoc
	err := r.posts.FindOne(ctx, byID(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PostRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idsToStrings(ids)}}}}
	found, err := r.find(ctx, filter, nil)
	if err != nil {
		return nil, err
	}

	byIDs := make(map[uuid.UUID]domain.Post, len(found))
	for _, p := range found {
		byIDs[p.ID] = p
	}

	posts := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byIDs[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// List returns all posts, newest first.
func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	return r.find(ctx, bson.D{}, newestFirst())
}

func (r *PostRepo) ListByTags(ctx context.Context, tags []string) ([]domain.Post, error) {
	filter := bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: tags}}}}
	return r.find(ctx, filter, newestFirst())
}

func (r *PostRepo) find(ctx context.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]domain.Post, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.posts.Find(ctx, filter, opts)
	} else {
		cur, err = r.posts.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []domain.Post
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		posts = append(posts, *doc.toDomain())
	}
	return posts, cur.Err()
}

func newestFirst() *options.FindOptionsBuilder {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.posts.DeleteOne(ctx, byID(id))
	return err
}

func (r *PostRepo) AddLike(ctx context.Context, postID, userID uuid.UUID) error {
	return r.update(ctx, postID, "$addToSet", "likes", userID.String())
}

func (r *PostRepo) RemoveLike(ctx context.Context, postID, userID uuid.UUID) error {
	return r.update(ctx, postID, "$pull", "likes", userID.String())
}

func (r *PostRepo) AddCommentRef(ctx context.Context, postID, commentID uuid.UUID) error {
	return r.update(ctx, postID, "$addToSet", "comments", commentID.String())
}

func (r *PostRepo) RemoveCommentRef(ctx context.Context, postID, commentID uuid.UUID) error {
	return r.update(ctx, postID, "$pull", "comments", commentID.String())
}

func (r *PostRepo) update(ctx context.Context, postID uuid.UUID, op, field, value string) error {
	update := bson.D{{Key: op, Value: bson.D{{Key: field, Value: value}}}}
	_, err := r.posts.UpdateOne(ctx, byID(postID), update)
	return err
}
