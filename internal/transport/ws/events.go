package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/domain"
)

// Event types - Client → Server
const (
	EventTypePing = "ping"
)

// Event types - Server → Client
const (
	EventTypeNewFollower = "follow.new"
	EventTypePostLiked   = "post.liked"
	EventTypeNewComment  = "comment.new"
	EventTypePresence    = "presence"
	EventTypePong        = "pong"
	EventTypeError       = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

type NewFollowerPayload struct {
	Follower domain.Profile `json:"follower"`
}

type PostLikedPayload struct {
	PostID  uuid.UUID `json:"post_id"`
	LikerID uuid.UUID `json:"liker_id"`
	Likes   int       `json:"likes"`
}

type NewCommentPayload struct {
	domain.Comment
}

type PresencePayload struct {
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"` // "online" | "offline"
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
