package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/lib/sl"
	"github.com/vedran77/ripple/internal/repository"
)

const postPageSize = 10

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNoPostsFound  = errors.New("no posts found")
	ErrAlreadyLiked  = errors.New("post already liked")
	ErrNotLiked      = errors.New("post not liked")
	ErrNotPostAuthor = errors.New("only the author can delete this post")
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	notifier Notifier
	logger   *slog.Logger
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, notifier Notifier, logger *slog.Logger) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

type CreatePostInput struct {
	Text string   `json:"text"`
	Tags []string `json:"tags,omitempty"`
	File string   `json:"file,omitempty"`
}

// Create stores a new post and appends it to the author's post set.
func (s *PostService) Create(ctx context.Context, userID uuid.UUID, input CreatePostInput) (*domain.Post, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      input.Text,
		Tags:      input.Tags,
		File:      input.File,
		CreatedAt: time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	if err := s.userRepo.AddPostRef(ctx, userID, post.ID); err != nil {
		if delErr := s.postRepo.Delete(ctx, post.ID); delErr != nil {
			s.logger.Error("removing orphaned post", sl.Err(delErr))
		}
		return nil, fmt.Errorf("linking post to user: %w", err)
	}

	post.Username = user.Username
	return post, nil
}

func (s *PostService) Get(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	s.fillUsernames(ctx, []domain.Post{*post})
	return post, nil
}

// ListAll returns every post, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.fillUsernames(ctx, posts)
	return posts, nil
}

// ListByTags returns posts carrying any of the given tags, newest first.
func (s *PostService) ListByTags(ctx context.Context, tags []string) ([]domain.Post, error) {
	posts, err := s.postRepo.ListByTags(ctx, tags)
	if err != nil {
		return nil, err
	}
	s.fillUsernames(ctx, posts)
	return posts, nil
}

// ListByUser returns a user's posts, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Post, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	posts, err := s.postRepo.GetMany(ctx, user.Posts)
	if err != nil {
		return nil, err
	}
	reversePosts(posts)
	s.fillUsernames(ctx, posts)
	return posts, nil
}

// ListByUserPage returns one page of a user's posts, newest first. Pages
// start at 1.
func (s *PostService) ListByUserPage(ctx context.Context, userID uuid.UUID, page int) ([]domain.Post, error) {
	if page < 1 {
		return nil, ErrNoPostsFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// user.Posts is in creation order; page over it newest-first.
	ids := make([]uuid.UUID, len(user.Posts))
	copy(ids, user.Posts)
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}

	start := (page - 1) * postPageSize
	if start >= len(ids) {
		return nil, ErrNoPostsFound
	}
	end := start + postPageSize
	if end > len(ids) {
		end = len(ids)
	}

	posts, err := s.postRepo.GetMany(ctx, ids[start:end])
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNoPostsFound
	}
	s.fillUsernames(ctx, posts)
	return posts, nil
}

// LikedPosts returns the posts the user has liked.
func (s *PostService) LikedPosts(ctx context.Context, userID uuid.UUID) ([]domain.Post, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	posts, err := s.postRepo.GetMany(ctx, user.LikedPosts)
	if err != nil {
		return nil, err
	}
	reversePosts(posts)
	s.fillUsernames(ctx, posts)
	return posts, nil
}

// Feed returns the user's own posts plus those of everyone they follow,
// newest first.
func (s *PostService) Feed(ctx context.Context, userID uuid.UUID) ([]domain.Post, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	ids := make([]uuid.UUID, 0, len(user.Posts))
	ids = append(ids, user.Posts...)
	for _, followeeID := range user.Following {
		followee, err := s.userRepo.GetByID(ctx, followeeID)
		if err != nil {
			return nil, err
		}
		if followee == nil {
			continue
		}
		ids = append(ids, followee.Posts...)
	}

	posts, err := s.postRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	s.fillUsernames(ctx, posts)
	return posts, nil
}

// Like records a like on both the post and the liking user.
func (s *PostService) Like(ctx context.Context, userID, postID uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if post.IsLikedBy(userID) {
		return nil, ErrAlreadyLiked
	}

	if err := s.postRepo.AddLike(ctx, postID, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.AddLikedPost(ctx, userID, postID); err != nil {
		if rbErr := s.postRepo.RemoveLike(ctx, postID, userID); rbErr != nil {
			s.logger.Error("rolling back post like", sl.Err(rbErr))
		}
		return nil, err
	}

	post.Likes = append(post.Likes, userID)
	if s.notifier != nil && post.UserID != userID {
		s.notifier.PostLiked(post.UserID, post, userID)
	}
	return post, nil
}

// Unlike removes a like from both the post and the liking user.
func (s *PostService) Unlike(ctx context.Context, userID, postID uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !post.IsLikedBy(userID) {
		return nil, ErrNotLiked
	}

	if err := s.postRepo.RemoveLike(ctx, postID, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.RemoveLikedPost(ctx, userID, postID); err != nil {
		if rbErr := s.postRepo.AddLike(ctx, postID, userID); rbErr != nil {
			s.logger.Error("rolling back post unlike", sl.Err(rbErr))
		}
		return nil, err
	}

	likes := post.Likes[:0]
	for _, id := range post.Likes {
		if id != userID {
			likes = append(likes, id)
		}
	}
	post.Likes = likes
	return post, nil
}

// Delete removes a post. Only the author may delete it.
func (s *PostService) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return ErrNotPostAuthor
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	return s.userRepo.RemovePostRef(ctx, userID, postID)
}

// fillUsernames resolves the author username for each post. Lookups are
// best-effort; a missing author leaves the field empty.
func (s *PostService) fillUsernames(ctx context.Context, posts []domain.Post) {
	cache := make(map[uuid.UUID]string)
	for i := range posts {
		name, ok := cache[posts[i].UserID]
		if !ok {
			user, err := s.userRepo.GetByID(ctx, posts[i].UserID)
			if err != nil || user == nil {
				cache[posts[i].UserID] = ""
				continue
			}
			name = user.Username
			cache[posts[i].UserID] = name
		}
		posts[i].Username = name
	}
}

func reversePosts(posts []domain.Post) {
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}
}
