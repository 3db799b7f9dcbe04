package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/repository"
)

var (
	ErrSelfRelation     = errors.New("operation cannot target yourself")
	ErrBlockedByTarget  = errors.New("the user has blocked you")
	ErrTargetBlocked    = errors.New("you have blocked this user")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
	ErrAlreadyBlocked   = errors.New("already blocking this user")
	ErrNotBlocked       = errors.New("user is not blocked")
)

// RelationshipService applies follow and block operations while keeping the
// follower/following sets symmetric: every mutation touches both user
// documents or neither.
type RelationshipService struct {
	userRepo repository.UserRepository
	notifier Notifier
	logger   *slog.Logger
}

func NewRelationshipService(userRepo repository.UserRepository, notifier Notifier, logger *slog.Logger) *RelationshipService {
	return &RelationshipService{
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// Follow adds a follow edge from actor to target.
func (s *RelationshipService) Follow(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfRelation
	}

	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	if target.HasBlocked(actorID) {
		return ErrBlockedByTarget
	}
	if actor.IsFollowing(targetID) {
		return ErrAlreadyFollowing
	}
	if actor.HasBlocked(targetID) {
		return ErrTargetBlocked
	}

	if err := s.userRepo.AddFollowEdge(ctx, actorID, targetID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NewFollower(targetID, actor.Profile())
	}
	return nil
}

// Unfollow removes the follow edge from actor to target.
func (s *RelationshipService) Unfollow(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfRelation
	}

	_, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	if !target.IsFollowedBy(actorID) {
		return ErrNotFollowing
	}

	return s.userRepo.RemoveFollowEdge(ctx, actorID, targetID)
}

// Block adds target to actor's blocked set and severs any follow edge
// between the pair, in either direction.
func (s *RelationshipService) Block(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfRelation
	}

	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	if actor.HasBlocked(targetID) {
		return ErrAlreadyBlocked
	}

	// Sever the follow edges before writing the block flag. A failed sever
	// then leaves no block behind, and the retry is not rejected as already
	// blocked. The pulls are idempotent, so replaying a partial sever is
	// safe.
	if target.IsFollowedBy(actorID) {
		if err := s.userRepo.RemoveFollowEdge(ctx, actorID, targetID); err != nil {
			return err
		}
	}
	if actor.IsFollowedBy(targetID) {
		if err := s.userRepo.RemoveFollowEdge(ctx, targetID, actorID); err != nil {
			return err
		}
	}

	if err := s.userRepo.AddBlocked(ctx, actorID, targetID); err != nil {
		return err
	}

	s.logger.Info("user blocked",
		slog.String("actor_id", actorID.String()),
		slog.String("target_id", targetID.String()))
	return nil
}

// Unblock removes target from actor's blocked set. A follow edge severed by
// the block is not restored.
func (s *RelationshipService) Unblock(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfRelation
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return ErrUserNotFound
	}

	if !actor.HasBlocked(targetID) {
		return ErrNotBlocked
	}

	return s.userRepo.RemoveBlocked(ctx, actorID, targetID)
}

func (s *RelationshipService) loadPair(ctx context.Context, actorID, targetID uuid.UUID) (*domain.User, *domain.User, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	if actor == nil || target == nil {
		return nil, nil, ErrUserNotFound
	}
	return actor, target, nil
}
