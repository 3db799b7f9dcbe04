package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresSession(t *testing.T) {
	userID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])

		json.NewEncoder(w).Encode(map[string]any{
			"id":            userID,
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Login(context.Background(), "alice", "Sup3rSecret"))

	s := c.Session()
	assert.Equal(t, userID, s.UserID)
	assert.Equal(t, "access-1", s.AccessToken)
	assert.Equal(t, "refresh-1", s.RefreshToken)
}

func TestRetryOn401RefreshesAndReplays(t *testing.T) {
	var selfCalls, refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/self":
			selfCalls++
			if r.Header.Get("Authorization") != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Token expired"}}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"id": uuid.New(), "username": "alice"})
		case "/api/users/token":
			refreshCalls++
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "refresh-1", body["refresh_token"])
			json.NewEncoder(w).Encode(map[string]string{"access_token": "access-2"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetSession(Session{AccessToken: "stale", RefreshToken: "refresh-1"})

	user, err := c.Self(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	assert.Equal(t, 2, selfCalls, "the request is replayed exactly once")
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, "access-2", c.Session().AccessToken)
}

func TestRetryGivesUpWhenRefreshFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/self":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"Unauthorized"}}`))
		case "/api/users/token":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":"INVALID_REFRESH_TOKEN","message":"Invalid refresh token"}}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetSession(Session{AccessToken: "stale", RefreshToken: "dead"})

	_, err := c.Self(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", apiErr.Code)
}

func TestAPIErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":{"code":"ALREADY_FOLLOWING","message":"Already following this user"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetSession(Session{AccessToken: "tok"})

	err := c.Follow(context.Background(), uuid.New())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "ALREADY_FOLLOWING", apiErr.Code)
	assert.Equal(t, "Already following this user", apiErr.Message)
}
