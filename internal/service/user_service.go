package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/repository"
)

var ErrNoUsersFound = errors.New("no users found")

type UserService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	logger    *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// Self returns the acting user's own record, including liked posts and the
// blocked set.
func (s *UserService) Self(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Get returns a user's public profile.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.Profile(), nil
}

// GetByUsername returns the public profile for a username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.Profile(), nil
}

// UsernameOf resolves a user id to its username.
func (s *UserService) UsernameOf(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	return user.Username, nil
}

// List returns every user's public profile.
func (s *UserService) List(ctx context.Context) ([]domain.Profile, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return profiles(users), nil
}

// Search returns profiles whose username contains the term.
func (s *UserService) Search(ctx context.Context, term string) ([]domain.Profile, error) {
	users, err := s.userRepo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoUsersFound
	}
	return profiles(users), nil
}

type UpdateProfileInput struct {
	Name     *string `json:"name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UpdateProfile applies the provided fields to the acting user's record.
// A new password is re-hashed before persisting.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user record and revokes their sessions. The
// user's posts and comments are left in place.
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.tokenRepo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoking access tokens: %w", err)
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	s.logger.Info("account deleted", slog.String("user_id", userID.String()))
	return nil
}

func profiles(users []domain.User) []domain.Profile {
	out := make([]domain.Profile, 0, len(users))
	for i := range users {
		out = append(out, *users[i].Profile())
	}
	return out
}
