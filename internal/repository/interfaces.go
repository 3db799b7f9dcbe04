package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/vedran77/ripple/internal/domain"
)

// Lookups return (nil, nil) when no document matches.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Search(ctx context.Context, term string) ([]domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	SetRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error

	// AddFollowEdge and RemoveFollowEdge mutate both user documents
	// (follower.following and followee.followers) or neither.
	AddFollowEdge(ctx context.Context, followerID, followeeID uuid.UUID) error
	RemoveFollowEdge(ctx context.Context, followerID, followeeID uuid.UUID) error

	AddBlocked(ctx context.Context, actorID, targetID uuid.UUID) error
	RemoveBlocked(ctx context.Context, actorID, targetID uuid.UUID) error

	AddPostRef(ctx context.Context, userID, postID uuid.UUID) error
	RemovePostRef(ctx context.Context, userID, postID uuid.UUID) error
	AddLikedPost(ctx context.Context, userID, postID uuid.UUID) error
	RemoveLikedPost(ctx context.Context, userID, postID uuid.UUID) error
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	// GetMany returns the posts for the given ids in the same order,
	// skipping ids that no longer resolve.
	GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	ListByTags(ctx context.Context, tags []string) ([]domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddLike(ctx context.Context, postID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) error
	AddCommentRef(ctx context.Context, postID, commentID uuid.UUID) error
	RemoveCommentRef(ctx context.Context, postID, commentID uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddLike(ctx context.Context, commentID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, commentID, userID uuid.UUID) error
}

// TokenRepository is the whitelist of currently-valid access tokens.
type TokenRepository interface {
	Insert(ctx context.Context, entry *domain.AccessToken) error
	Get(ctx context.Context, token string) (*domain.AccessToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
