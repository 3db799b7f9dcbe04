package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/lib/sl"
	"github.com/vedran77/ripple/internal/repository"
)

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrCommentAlreadyLiked = errors.New("comment already liked")
	ErrCommentNotLiked     = errors.New("comment not liked")
	ErrNotCommentAuthor    = errors.New("only the author can delete this comment")
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	logger      *slog.Logger
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Create adds a comment to a post.
func (s *CommentService) Create(ctx context.Context, userID, postID uuid.UUID, text string) (*domain.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		UserID:    userID,
		PostID:    postID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	if err := s.postRepo.AddCommentRef(ctx, postID, comment.ID); err != nil {
		if delErr := s.commentRepo.Delete(ctx, comment.ID); delErr != nil {
			s.logger.Error("removing orphaned comment", sl.Err(delErr))
		}
		return nil, fmt.Errorf("linking comment to post: %w", err)
	}

	if s.notifier != nil && post.UserID != userID {
		s.notifier.NewComment(post.UserID, comment)
	}
	return comment, nil
}

// Get returns a comment with its author's username resolved.
func (s *CommentService) Get(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	s.fillUsername(ctx, comment)
	return comment, nil
}

// ListByPost returns a post's comments in creation order.
func (s *CommentService) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comments, err := s.commentRepo.GetMany(ctx, post.Comments)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		s.fillUsername(ctx, &comments[i])
	}
	return comments, nil
}

// Delete removes a comment and its reference on the post. Only the author
// may delete it.
func (s *CommentService) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		return ErrNotCommentAuthor
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	return s.postRepo.RemoveCommentRef(ctx, comment.PostID, commentID)
}

// Like records a like on a comment.
func (s *CommentService) Like(ctx context.Context, userID, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.IsLikedBy(userID) {
		return nil, ErrCommentAlreadyLiked
	}

	if err := s.commentRepo.AddLike(ctx, commentID, userID); err != nil {
		return nil, err
	}
	comment.Likes = append(comment.Likes, userID)
	return comment, nil
}

// Unlike removes a like from a comment.
func (s *CommentService) Unlike(ctx context.Context, userID, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if !comment.IsLikedBy(userID) {
		return nil, ErrCommentNotLiked
	}

	if err := s.commentRepo.RemoveLike(ctx, commentID, userID); err != nil {
		return nil, err
	}
	likes := comment.Likes[:0]
	for _, id := range comment.Likes {
		if id != userID {
			likes = append(likes, id)
		}
	}
	comment.Likes = likes
	return comment, nil
}

func (s *CommentService) fillUsername(ctx context.Context, comment *domain.Comment) {
	user, err := s.userRepo.GetByID(ctx, comment.UserID)
	if err != nil || user == nil {
		return
	}
	comment.Username = user.Username
}
