package service

import (
	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/domain"
)

// Notifier pushes best-effort events to online users. Implementations must
// never block or fail the calling operation.
type Notifier interface {
	NewFollower(userID uuid.UUID, follower *domain.Profile)
	PostLiked(userID uuid.UUID, post *domain.Post, likerID uuid.UUID)
	NewComment(userID uuid.UUID, comment *domain.Comment)
}
