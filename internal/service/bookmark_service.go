package service

import (
	"context"

	"github.com/spec-kit/bookmark-service/internal/domain"
	"github.com/spec-kit/bookmark-service/internal/repository"
)

// BookmarkService fronts the bookmark query collaborator. It applies
// no filtering, sorting or pagination of its own: the caller's filter
// goes through unchanged, scoped only to the owner.
type BookmarkService struct {
	bookmarks repository.BookmarkRepository
}

// NewBookmarkService builds the service.
func NewBookmarkService(bookmarks repository.BookmarkRepository) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks}
}

// ListBookmarks delegates to the repository with the filter verbatim
// and propagates its result or failure unchanged.
func (s *BookmarkService) ListBookmarks(ctx context.Context, ownerID string, filter repository.BookmarkFilter) ([]domain.Bookmark, error) {
	return s.bookmarks.ListByOwner(ctx, ownerID, filter)
}
