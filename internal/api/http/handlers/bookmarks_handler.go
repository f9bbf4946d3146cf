package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookmark-service/internal/api/dto"
	"github.com/spec-kit/bookmark-service/internal/auth"
	"github.com/spec-kit/bookmark-service/internal/domain"
	"github.com/spec-kit/bookmark-service/internal/repository"
	"github.com/spec-kit/bookmark-service/internal/service"
	apperrors "github.com/spec-kit/bookmark-service/pkg/util/errorutil"
)

// BookmarksHandler serves the session-scoped bookmark listing.
type BookmarksHandler struct {
	service *service.BookmarkService
}

// NewBookmarksHandler constructs handler.
func NewBookmarksHandler(bookmarkService *service.BookmarkService) *BookmarksHandler {
	return &BookmarksHandler{service: bookmarkService}
}

// List handles GET /bookmarks. The session gate runs before this
// handler; the repository is never queried without it. The two
// optional boolean params pass through to the filter verbatim.
func (h *BookmarksHandler) List(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}

	filter := repository.BookmarkFilter{
		Favourited: parseOptionalBool(c.Query("favourited")),
		Archived:   parseOptionalBool(c.Query("archived")),
	}

	bookmarks, err := h.service.ListBookmarks(c.UserContext(), session.User.ID, filter)
	if err != nil {
		return err
	}

	items := make([]dto.BookmarkSummary, 0, len(bookmarks))
	for i := range bookmarks {
		items = append(items, bookmarkSummary(&bookmarks[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"bookmarks": items}})
}

func bookmarkSummary(b *domain.Bookmark) dto.BookmarkSummary {
	return dto.BookmarkSummary{
		ID:         b.ID,
		URL:        b.URL,
		Title:      b.Title,
		Summary:    b.Summary,
		Favourited: b.Favourited,
		Archived:   b.Archived,
		Tags:       b.Tags,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func parseOptionalBool(raw string) *bool {
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &parsed
}
