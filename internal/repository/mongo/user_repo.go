package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vedran77/ripple/internal/domain"
)

type UserRepo struct {
	users *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{users: db.Collection(usersCollection)}
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	Name         string    `bson:"name"`
	PasswordHash string    `bson:"password_hash"`
	Bio          string    `bson:"bio,omitempty"`
	Avatar       string    `bson:"avatar,omitempty"`
	Followers    []string  `bson:"followers"`
	Following    []string  `bson:"following"`
	Blocked      []string  `bson:"blocked"`
	Posts        []string  `bson:"posts"`
	LikedPosts   []string  `bson:"liked_posts"`
	RefreshToken string    `bson:"refresh_token"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Bio:          u.Bio,
		Avatar:       u.Avatar,
		Followers:    idsToStrings(u.Followers),
		Following:    idsToStrings(u.Following),
		Blocked:      idsToStrings(u.Blocked),
		Posts:        idsToStrings(u.Posts),
		LikedPosts:   idsToStrings(u.LikedPosts),
		RefreshToken: u.RefreshToken,
		CreatedAt:    u.CreatedAt,
	}
}

func (d *userDoc) toDomain() *domain.User {
	id, _ := uuid.Parse(d.ID)
	return &domain.User{
		ID:           id,
		Username:     d.Username,
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Bio:          d.Bio,
		Avatar:       d.Avatar,
		Followers:    stringsToIDs(d.Followers),
		Following:    stringsToIDs(d.Following),
		Blocked:      stringsToIDs(d.Blocked),
		Posts:        stringsToIDs(d.Posts),
		LikedPosts:   stringsToIDs(d.LikedPosts),
		RefreshToken: d.RefreshToken,
		CreatedAt:    d.CreatedAt,
	}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	const op = "repository.mongo.UserRepo.Create"

	_, err := r.users.InsertOne(ctx, toUserDoc(user))
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, byID(id))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.User, error) {
	if refreshToken == "" {
		return nil, nil
	}
	return r.findOne(ctx, bson.D{{Key: "refresh_token", Value: refreshToken}})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	var doc userDoc
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	return r.find(ctx, bson.D{})
}

// Search matches usernames containing the term, case-insensitively.
func (r *UserRepo) Search(ctx context.Context, term string) ([]domain.User, error) {
	filter := bson.D{{Key: "username", Value: bson.D{
		{Key: "$regex", Value: regexp.QuoteMeta(term)},
		{Key: "$options", Value: "i"},
	}}}
	return r.find(ctx, filter)
}

func (r *UserRepo) find(ctx context.Context, filter bson.D) ([]domain.User, error) {
	cur, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, *doc.toDomain())
	}
	return users, cur.Err()
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	const op = "repository.mongo.UserRepo.UpdateProfile"

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: user.Name},
		{Key: "bio", Value: user.Bio},
		{Key: "avatar", Value: user.Avatar},
		{Key: "password_hash", Value: user.PasswordHash},
	}}}
	_, err := r.users.UpdateOne(ctx, byID(user.ID), update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.users.DeleteOne(ctx, byID(id))
	return err
}

func (r *UserRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "refresh_token", Value: refreshToken}}}}
	_, err := r.users.UpdateOne(ctx, byID(id), update)
	return err
}

// AddFollowEdge adds followee to follower.following and follower to
// followee.followers. Both writes use $addToSet so a replay cannot create
// duplicates; if the second write fails the first is compensated.
func (r *UserRepo) AddFollowEdge(ctx context.Context, followerID, followeeID uuid.UUID) error {
	const op = "repository.mongo.UserRepo.AddFollowEdge"

	if err := r.addToSet(ctx, followerID, "following", followeeID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.addToSet(ctx, followeeID, "followers", followerID); err != nil {
		// roll back the follower side so the edge stays symmetric
		if rbErr := r.pull(ctx, followerID, "following", followeeID); rbErr != nil {
			return fmt.Errorf("%s: %w (rollback failed: %v)", op, err, rbErr)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveFollowEdge removes both sides of a follow edge. $pull is idempotent,
// so a partial failure is repaired by retrying the same call.
func (r *UserRepo) RemoveFollowEdge(ctx context.Context, followerID, followeeID uuid.UUID) error {
	const op = "repository.mongo.UserRepo.RemoveFollowEdge"

	if err := r.pull(ctx, followerID, "following", followeeID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.pull(ctx, followeeID, "followers", followerID); err != nil {
		if rbErr := r.addToSet(ctx, followerID, "following", followeeID); rbErr != nil {
			return fmt.Errorf("%s: %w (rollback failed: %v)", op, err, rbErr)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *UserRepo) AddBlocked(ctx context.Context, actorID, targetID uuid.UUID) error {
	return r.addToSet(ctx, actorID, "blocked", targetID)
}

func (r *UserRepo) RemoveBlocked(ctx context.Context, actorID, targetID uuid.UUID) error {
	return r.pull(ctx, actorID, "blocked", targetID)
}

func (r *UserRepo) AddPostRef(ctx context.Context, userID, postID uuid.UUID) error {
	return r.addToSet(ctx, userID, "posts", postID)
}

func (r *UserRepo) RemovePostRef(ctx context.Context, userID, postID uuid.UUID) error {
	return r.pull(ctx, userID, "posts", postID)
}

func (r *UserRepo) AddLikedPost(ctx context.Context, userID, postID uuid.UUID) error {
	return r.addToSet(ctx, userID, "liked_posts", postID)
}

func (r *UserRepo) RemoveLikedPost(ctx context.Context, userID, postID uuid.UUID) error {
	return r.pull(ctx, userID, "liked_posts", postID)
}

func (r *UserRepo) addToSet(ctx context.Context, id uuid.UUID, field string, value uuid.UUID) error {
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: field, Value: value.String()}}}}
	_, err := r.users.UpdateOne(ctx, byID(id), update)
	return err
}

func (r *UserRepo) pull(ctx context.Context, id uuid.UUID, field string, value uuid.UUID) error {
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: field, Value: value.String()}}}}
	_, err := r.users.UpdateOne(ctx, byID(id), update)
	return err
}
