package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Text      string      `json:"text"`
	Tags      []string    `json:"tags,omitempty"`
	File      string      `json:"file,omitempty"`
	Likes     []uuid.UUID `json:"likes"`
	Comments  []uuid.UUID `json:"comments"`
	CreatedAt time.Time   `json:"created_at"`
	// Joined field, populated on feed/detail reads.
	Username string `json:"username,omitempty"`
}

// IsLikedBy reports whether the given user has liked the post.
func (p *Post) IsLikedBy(userID uuid.UUID) bool {
	return containsID(p.Likes, userID)
}

type Comment struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	PostID    uuid.UUID   `json:"post_id"`
	Text      string      `json:"text"`
	Likes     []uuid.UUID `json:"likes"`
	CreatedAt time.Time   `json:"created_at"`
	// Joined field, populated on comment reads.
	Username string `json:"username,omitempty"`
}

// IsLikedBy reports whether the given user has liked the comment.
func (c *Comment) IsLikedBy(userID uuid.UUID) bool {
	return containsID(c.Likes, userID)
}
