package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/lib/sl"
	"github.com/vedran77/ripple/internal/lib/token"
	"github.com/vedran77/ripple/internal/repository"
)

var (
	ErrUsernameTaken       = errors.New("username already taken")
	ErrEmailTaken          = errors.New("email already taken")
	ErrUserNotFound        = errors.New("user not found")
	ErrAlreadyLoggedIn     = errors.New("user already logged in")
	ErrInvalidCreds        = errors.New("incorrect password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// AuthService owns the session lifecycle: signup, login, access-token
// issuance and refresh, logout.
type AuthService struct {
	userRepo      repository.UserRepository
	tokenRepo     repository.TokenRepository
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	logger        *slog.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	accessSecret, refreshSecret string,
	accessTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		logger:        logger,
	}
}

type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AuthResponse struct {
	ID           uuid.UUID `json:"id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// Signup creates a user and logs them in.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResponse, error) {
	existing, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user signed up",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))

	return s.startSession(ctx, user.ID)
}

// Login authenticates a user and starts a session. A user with a live
// refresh token is already logged in and must log out first.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.RefreshToken != "" {
		return nil, ErrAlreadyLoggedIn
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCreds
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID.String()))

	return s.startSession(ctx, user.ID)
}

// startSession mints both tokens, records the access token in the whitelist
// and persists the refresh token on the user record.
func (s *AuthService) startSession(ctx context.Context, userID uuid.UUID) (*AuthResponse, error) {
	accessToken, err := s.issueAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := token.NewRefresh(userID, s.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, userID, refreshToken); err != nil {
		// revoke the access token so a half-started session cannot linger
		if delErr := s.tokenRepo.Delete(ctx, accessToken); delErr != nil {
			s.logger.Error("revoking access token after failed login", sl.Err(delErr))
		}
		return nil, fmt.Errorf("persisting refresh token: %w", err)
	}

	return &AuthResponse{
		ID:           userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	user, err := s.userRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidRefreshToken
	}

	if _, err := token.Verify(refreshToken, s.refreshSecret); err != nil {
		return "", ErrInvalidRefreshToken
	}

	return s.issueAccessToken(ctx, user.ID)
}

// Logout clears the refresh token and revokes every outstanding access
// token for the user.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.SetRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("clearing refresh token: %w", err)
	}
	if err := s.tokenRepo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoking access tokens: %w", err)
	}

	s.logger.Info("user logged out", slog.String("user_id", userID.String()))
	return nil
}

// issueAccessToken mints a short-lived access token and records it in the
// whitelist. A token whose ledger insert failed is never returned to the
// caller.
func (s *AuthService) issueAccessToken(ctx context.Context, userID uuid.UUID) (string, error) {
	accessToken, err := token.NewAccess(userID, s.accessSecret, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}

	now := time.Now()
	entry := &domain.AccessToken{
		Token:     accessToken,
		UserID:    userID,
		ExpiresAt: now.Add(s.accessTTL),
		CreatedAt: now,
	}
	if err := s.tokenRepo.Insert(ctx, entry); err != nil {
		return "", fmt.Errorf("whitelisting access token: %w", err)
	}

	return accessToken, nil
}
