package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/service"
)

// Session holds the credentials of a logged-in user. Callers persist it
// across restarts and hand it back via SetSession; there is no global
// session state.
type Session struct {
	UserID       uuid.UUID `json:"id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Client talks to the ripple REST API. On a 401 it refreshes the access
// token once and replays the request once; any further failure is returned
// to the caller.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	session Session
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// Session returns a copy of the current session.
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetSession restores a previously persisted session.
func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// Signup creates an account and stores the returned session.
func (c *Client) Signup(ctx context.Context, input service.SignupInput) error {
	var resp service.AuthResponse
	if err := c.public(ctx, http.MethodPost, "/api/users", input, &resp); err != nil {
		return err
	}
	c.SetSession(Session{UserID: resp.ID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return nil
}

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	var resp service.AuthResponse
	if err := c.public(ctx, http.MethodPost, "/api/users/login", body, &resp); err != nil {
		return err
	}
	c.SetSession(Session{UserID: resp.ID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return nil
}

// Logout ends the session server-side and clears it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, nil)
	c.SetSession(Session{})
	return err
}

func (c *Client) Self(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/api/users/self", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Follow(ctx context.Context, userID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/api/users/follow/"+userID.String(), nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/users/follow/"+userID.String(), nil, nil)
}

func (c *Client) Block(ctx context.Context, userID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/api/users/block/"+userID.String(), nil, nil)
}

func (c *Client) Unblock(ctx context.Context, userID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/users/block/"+userID.String(), nil, nil)
}

func (c *Client) CreatePost(ctx context.Context, input service.CreatePostInput) (*domain.Post, error) {
	var post domain.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", input, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) Feed(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/feed", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) LikePost(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts/like/"+postID.String(), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// do performs an authenticated request. On 401 it refreshes the access
// token and replays the request, once.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := encode(body)
	if err != nil {
		return err
	}

	status, data, err := c.send(ctx, method, path, payload, c.Session().AccessToken)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if err := c.refresh(ctx); err != nil {
			return err
		}
		status, data, err = c.send(ctx, method, path, payload, c.Session().AccessToken)
		if err != nil {
			return err
		}
	}

	return decode(status, data, out)
}

// public performs an unauthenticated request with no retry.
func (c *Client) public(ctx context.Context, method, path string, body, out any) error {
	payload, err := encode(body)
	if err != nil {
		return err
	}
	status, data, err := c.send(ctx, method, path, payload, "")
	if err != nil {
		return err
	}
	return decode(status, data, out)
}

// refresh mints a new access token from the stored refresh token.
func (c *Client) refresh(ctx context.Context) error {
	s := c.Session()
	body := map[string]string{"refresh_token": s.RefreshToken}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.public(ctx, http.MethodPost, "/api/users/token", body, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	c.session.AccessToken = resp.AccessToken
	c.mu.Unlock()
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, accessToken string) (int, []byte, error) {
	var reader *bytes.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, buf.Bytes(), nil
}

func encode(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	return json.Marshal(body)
}

func decode(status int, data []byte, out any) error {
	if status >= 200 && status < 300 {
		if out == nil || len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, out)
	}

	apiErr := &APIError{Status: status, Code: "UNKNOWN", Message: http.StatusText(status)}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
