package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bookmark-service/internal/auth"
	"github.com/spec-kit/bookmark-service/internal/domain"
	"github.com/spec-kit/bookmark-service/internal/repository"
	"github.com/spec-kit/bookmark-service/internal/service"
)

type recordingBookmarkRepo struct {
	calls   int
	ownerID string
	filter  repository.BookmarkFilter
	result  []domain.Bookmark
	err     error
}

func (r *recordingBookmarkRepo) ListByOwner(ctx context.Context, ownerID string, filter repository.BookmarkFilter) ([]domain.Bookmark, error) {
	r.calls++
	r.ownerID = ownerID
	r.filter = filter
	return r.result, r.err
}

func newBookmarksApp(tm *auth.TokenManager, repo repository.BookmarkRepository) *fiber.App {
	app := fiber.New()
	app.Use(auth.NewSessionMiddleware(tm, auth.NewRevocationStore(nil)).Handle)

	handler := NewBookmarksHandler(service.NewBookmarkService(repo))
	app.Get("/bookmarks", auth.RequireSession("/"), handler.List)
	return app
}

func mintTestToken(t *testing.T, tm *auth.TokenManager) string {
	t.Helper()
	token, _, err := tm.MintToken(&domain.Account{
		ID:    "acc-1",
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  domain.RoleAdmin,
	})
	require.NoError(t, err)
	return token
}

// The query collaborator must never run when the gate fails.
func TestListBookmarks_NoSessionNoQuery(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	repo := &recordingBookmarkRepo{}
	app := newBookmarksApp(tm, repo)

	req := httptest.NewRequest("GET", "/bookmarks?favourited=true", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Zero(t, repo.calls)
}

func TestListBookmarks_FilterPassesThroughVerbatim(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	repo := &recordingBookmarkRepo{}
	app := newBookmarksApp(tm, repo)

	req := httptest.NewRequest("GET", "/bookmarks?archived=true", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: mintTestToken(t, tm)})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, 1, repo.calls)
	assert.Equal(t, "acc-1", repo.ownerID)
	assert.Nil(t, repo.filter.Favourited)
	require.NotNil(t, repo.filter.Archived)
	assert.True(t, *repo.filter.Archived)
}

func TestListBookmarks_NoFilterParams(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	repo := &recordingBookmarkRepo{}
	app := newBookmarksApp(tm, repo)

	req := httptest.NewRequest("GET", "/bookmarks", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: mintTestToken(t, tm)})

	_, err := app.Test(req)
	require.NoError(t, err)

	require.Equal(t, 1, repo.calls)
	assert.Nil(t, repo.filter.Favourited)
	assert.Nil(t, repo.filter.Archived)
}

func TestListBookmarks_ResultReturnedUnchanged(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	now := time.Now().Truncate(time.Second)
	repo := &recordingBookmarkRepo{result: []domain.Bookmark{
		{
			ID:         "bm-1",
			OwnerID:    "acc-1",
			URL:        "https://go.dev",
			Title:      "The Go Programming Language",
			Favourited: true,
			Tags:       []string{"golang"},
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}}
	app := newBookmarksApp(tm, repo)

	req := httptest.NewRequest("GET", "/bookmarks?favourited=true", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: mintTestToken(t, tm)})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Bookmarks []struct {
				ID         string `json:"id"`
				URL        string `json:"url"`
				Favourited bool   `json:"favourited"`
			} `json:"bookmarks"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data.Bookmarks, 1)
	assert.Equal(t, "bm-1", body.Data.Bookmarks[0].ID)
	assert.Equal(t, "https://go.dev", body.Data.Bookmarks[0].URL)
	assert.True(t, body.Data.Bookmarks[0].Favourited)
}
