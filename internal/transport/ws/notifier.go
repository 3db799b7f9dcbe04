package ws

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/lib/sl"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub    *Hub
	logger *slog.Logger
}

func NewHubNotifier(hub *Hub, logger *slog.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, logger: logger}
}

func (n *HubNotifier) NewFollower(userID uuid.UUID, follower *domain.Profile) {
	evt, err := NewEvent(EventTypeNewFollower, NewFollowerPayload{Follower: *follower})
	if err != nil {
		n.logger.Error("ws notifier: marshal error", sl.Err(err))
		return
	}
	n.hub.SendToUser(userID, evt)
}

func (n *HubNotifier) PostLiked(userID uuid.UUID, post *domain.Post, likerID uuid.UUID) {
	evt, err := NewEvent(EventTypePostLiked, PostLikedPayload{
		PostID:  post.ID,
		LikerID: likerID,
		Likes:   len(post.Likes),
	})
	if err != nil {
		n.logger.Error("ws notifier: marshal error", sl.Err(err))
		return
	}
	n.hub.SendToUser(userID, evt)
}

func (n *HubNotifier) NewComment(userID uuid.UUID, comment *domain.Comment) {
	evt, err := NewEvent(EventTypeNewComment, NewCommentPayload{Comment: *comment})
	if err != nil {
		n.logger.Error("ws notifier: marshal error", sl.Err(err))
		return
	}
	n.hub.SendToUser(userID, evt)
}
