package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- user repo ---

type memUserRepo struct {
	users map[uuid.UUID]*domain.User

	setRefreshErr   error
	addLikedErr     error
	removeFollowErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *memUserRepo) add(t *testing.T, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.com",
		Name:      strings.ToUpper(username[:1]) + username[1:],
		CreatedAt: time.Now(),
	}
	r.users[u.ID] = u
	return u
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByRefreshToken(_ context.Context, refreshToken string) (*domain.User, error) {
	if refreshToken == "" {
		return nil, nil
	}
	for _, u := range r.users {
		if u.RefreshToken == refreshToken {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *memUserRepo) Search(_ context.Context, term string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(term)) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) SetRefreshToken(_ context.Context, id uuid.UUID, refreshToken string) error {
	if r.setRefreshErr != nil {
		return r.setRefreshErr
	}
	if u, ok := r.users[id]; ok {
		u.RefreshToken = refreshToken
	}
	return nil
}

func (r *memUserRepo) AddFollowEdge(_ context.Context, followerID, followeeID uuid.UUID) error {
	follower, followee := r.users[followerID], r.users[followeeID]
	follower.Following = addID(follower.Following, followeeID)
	followee.Followers = addID(followee.Followers, followerID)
	return nil
}

func (r *memUserRepo) RemoveFollowEdge(_ context.Context, followerID, followeeID uuid.UUID) error {
	if r.removeFollowErr != nil {
		return r.removeFollowErr
	}
	follower, followee := r.users[followerID], r.users[followeeID]
	follower.Following = removeID(follower.Following, followeeID)
	followee.Followers = removeID(followee.Followers, followerID)
	return nil
}

func (r *memUserRepo) AddBlocked(_ context.Context, actorID, targetID uuid.UUID) error {
	u := r.users[actorID]
	u.Blocked = addID(u.Blocked, targetID)
	return nil
}

func (r *memUserRepo) RemoveBlocked(_ context.Context, actorID, targetID uuid.UUID) error {
	u := r.users[actorID]
	u.Blocked = removeID(u.Blocked, targetID)
	return nil
}

func (r *memUserRepo) AddPostRef(_ context.Context, userID, postID uuid.UUID) error {
	u := r.users[userID]
	u.Posts = addID(u.Posts, postID)
	return nil
}

func (r *memUserRepo) RemovePostRef(_ context.Context, userID, postID uuid.UUID) error {
	u := r.users[userID]
	u.Posts = removeID(u.Posts, postID)
	return nil
}

func (r *memUserRepo) AddLikedPost(_ context.Context, userID, postID uuid.UUID) error {
	if r.addLikedErr != nil {
		return r.addLikedErr
	}
	u := r.users[userID]
	u.LikedPosts = addID(u.LikedPosts, postID)
	return nil
}

func (r *memUserRepo) RemoveLikedPost(_ context.Context, userID, postID uuid.UUID) error {
	u := r.users[userID]
	u.LikedPosts = removeID(u.LikedPosts, postID)
	return nil
}

// --- post repo ---

type memPostRepo struct {
	posts map[uuid.UUID]*domain.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[uuid.UUID]*domain.Post)}
}

func (r *memPostRepo) Create(_ context.Context, post *domain.Post) error {
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) GetMany(_ context.Context, ids []uuid.UUID) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.posts[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPostRepo) List(_ context.Context) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPostRepo) ListByTags(_ context.Context, tags []string) ([]domain.Post, error) {
	var out []domain.Post
	for _, p := range r.posts {
		for _, want := range tags {
			if containsTag(p.Tags, want) {
				out = append(out, *p)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPostRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) AddLike(_ context.Context, postID, userID uuid.UUID) error {
	p := r.posts[postID]
	p.Likes = addID(p.Likes, userID)
	return nil
}

func (r *memPostRepo) RemoveLike(_ context.Context, postID, userID uuid.UUID) error {
	p := r.posts[postID]
	p.Likes = removeID(p.Likes, userID)
	return nil
}

func (r *memPostRepo) AddCommentRef(_ context.Context, postID, commentID uuid.UUID) error {
	p := r.posts[postID]
	p.Comments = addID(p.Comments, commentID)
	return nil
}

func (r *memPostRepo) RemoveCommentRef(_ context.Context, postID, commentID uuid.UUID) error {
	p := r.posts[postID]
	p.Comments = removeID(p.Comments, commentID)
	return nil
}

// --- comment repo ---

type memCommentRepo struct {
	comments map[uuid.UUID]*domain.Comment
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: make(map[uuid.UUID]*domain.Comment)}
}

func (r *memCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *memCommentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCommentRepo) GetMany(_ context.Context, ids []uuid.UUID) ([]domain.Comment, error) {
	out := make([]domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.comments[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.comments, id)
	return nil
}

func (r *memCommentRepo) AddLike(_ context.Context, commentID, userID uuid.UUID) error {
	c := r.comments[commentID]
	c.Likes = addID(c.Likes, userID)
	return nil
}

func (r *memCommentRepo) RemoveLike(_ context.Context, commentID, userID uuid.UUID) error {
	c := r.comments[commentID]
	c.Likes = removeID(c.Likes, userID)
	return nil
}

// --- token repo ---

type memTokenRepo struct {
	tokens map[string]*domain.AccessToken

	insertErr error
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]*domain.AccessToken)}
}

func (r *memTokenRepo) Insert(_ context.Context, entry *domain.AccessToken) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	cp := *entry
	r.tokens[entry.Token] = &cp
	return nil
}

func (r *memTokenRepo) Get(_ context.Context, token string) (*domain.AccessToken, error) {
	e, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *memTokenRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *memTokenRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for tok, e := range r.tokens {
		if e.UserID == userID {
			delete(r.tokens, tok)
		}
	}
	return nil
}

// --- notifier ---

type notifierCall struct {
	event  string
	userID uuid.UUID
}

type capturingNotifier struct {
	calls []notifierCall
}

func (n *capturingNotifier) NewFollower(userID uuid.UUID, _ *domain.Profile) {
	n.calls = append(n.calls, notifierCall{event: "follow.new", userID: userID})
}

func (n *capturingNotifier) PostLiked(userID uuid.UUID, _ *domain.Post, _ uuid.UUID) {
	n.calls = append(n.calls, notifierCall{event: "post.liked", userID: userID})
}

func (n *capturingNotifier) NewComment(userID uuid.UUID, _ *domain.Comment) {
	n.calls = append(n.calls, notifierCall{event: "comment.new", userID: userID})
}

// --- helpers ---

func addID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
