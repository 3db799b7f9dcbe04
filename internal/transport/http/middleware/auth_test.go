package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/lib/token"
)

const testSecret = "test-secret"

type fakeTokenRepo struct {
	entries map[string]*domain.AccessToken
}

func (f *fakeTokenRepo) Insert(_ context.Context, entry *domain.AccessToken) error {
	f.entries[entry.Token] = entry
	return nil
}

func (f *fakeTokenRepo) Get(_ context.Context, tok string) (*domain.AccessToken, error) {
	return f.entries[tok], nil
}

func (f *fakeTokenRepo) Delete(_ context.Context, tok string) error {
	delete(f.entries, tok)
	return nil
}

func (f *fakeTokenRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for tok, e := range f.entries {
		if e.UserID == userID {
			delete(f.entries, tok)
		}
	}
	return nil
}

func newAuthTest(t *testing.T) (*fakeTokenRepo, http.Handler, *uuid.UUID) {
	t.Helper()
	repo := &fakeTokenRepo{entries: make(map[string]*domain.AccessToken)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var gotUserID uuid.UUID
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return repo, Auth(repo, testSecret, logger)(inner), &gotUserID
}

func whitelistToken(t *testing.T, repo *fakeTokenRepo, userID uuid.UUID, ttl time.Duration) string {
	t.Helper()
	tok, err := token.NewAccess(userID, []byte(testSecret), ttl)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), &domain.AccessToken{
		Token:     tok,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}))
	return tok
}

func doRequest(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthValidToken(t *testing.T) {
	repo, handler, gotUserID := newAuthTest(t)
	userID := uuid.New()
	tok := whitelistToken(t, repo, userID, time.Minute)

	rec := doRequest(handler, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, *gotUserID)
}

func TestAuthMissingHeader(t *testing.T) {
	_, handler, _ := newAuthTest(t)

	rec := doRequest(handler, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(handler, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthTokenNotWhitelisted(t *testing.T) {
	_, handler, _ := newAuthTest(t)

	// valid signature, but the whitelist has never seen it
	tok, err := token.NewAccess(uuid.New(), []byte(testSecret), time.Minute)
	require.NoError(t, err)

	rec := doRequest(handler, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthExpiredEntryPurged(t *testing.T) {
	repo, handler, _ := newAuthTest(t)
	tok := whitelistToken(t, repo, uuid.New(), -time.Minute)

	rec := doRequest(handler, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, repo.entries, tok, "expired entry must be deleted on sight")
}

func TestAuthBadSignature(t *testing.T) {
	repo, handler, _ := newAuthTest(t)

	tok, err := token.NewAccess(uuid.New(), []byte("other-secret"), time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), &domain.AccessToken{
		Token:     tok,
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	rec := doRequest(handler, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
