package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	PasswordHash string      `json:"-"`
	Bio          string      `json:"bio,omitempty"`
	Avatar       string      `json:"avatar,omitempty"`
	Followers    []uuid.UUID `json:"followers"`
	Following    []uuid.UUID `json:"following"`
	Blocked      []uuid.UUID `json:"blocked"`
	Posts        []uuid.UUID `json:"posts"`
	LikedPosts   []uuid.UUID `json:"liked_posts"`
	RefreshToken string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Profile is the public view of a user, without credentials or liked posts.
type Profile struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	Bio       string      `json:"bio,omitempty"`
	Avatar    string      `json:"avatar,omitempty"`
	Followers []uuid.UUID `json:"followers"`
	Following []uuid.UUID `json:"following"`
	Posts     []uuid.UUID `json:"posts"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		Followers: u.Followers,
		Following: u.Following,
		Posts:     u.Posts,
		CreatedAt: u.CreatedAt,
	}
}

// IsFollowing reports whether u follows the given user.
func (u *User) IsFollowing(id uuid.UUID) bool {
	return containsID(u.Following, id)
}

// IsFollowedBy reports whether the given user follows u.
func (u *User) IsFollowedBy(id uuid.UUID) bool {
	return containsID(u.Followers, id)
}

// HasBlocked reports whether u has blocked the given user.
func (u *User) HasBlocked(id uuid.UUID) bool {
	return containsID(u.Blocked, id)
}

// HasLiked reports whether u has liked the given post.
func (u *User) HasLiked(postID uuid.UUID) bool {
	return containsID(u.LikedPosts, postID)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
