package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bookmark-service/internal/domain"
)

// BookmarkFilter narrows a listing. Nil fields mean "do not filter on
// this dimension"; the filter is carried through from the caller
// unchanged.
type BookmarkFilter struct {
	Favourited *bool
	Archived   *bool
}

// BookmarkRepository is the query side of bookmark storage consumed
// by the listing entry point. Writes belong to the ingestion
// pipeline, not this service.
type BookmarkRepository interface {
	ListByOwner(ctx context.Context, ownerID string, filter BookmarkFilter) ([]domain.Bookmark, error)
}

type bookmarkRepository struct {
	pool *pgxpool.Pool
}

// NewBookmarkRepository instantiates repository.
func NewBookmarkRepository(pool *pgxpool.Pool) BookmarkRepository {
	return &bookmarkRepository{pool: pool}
}

func (r *bookmarkRepository) ListByOwner(ctx context.Context, ownerID string, filter BookmarkFilter) ([]domain.Bookmark, error) {
	base := `SELECT id, owner_id, url, title, summary, favourited, archived, tags, created_at, updated_at
             FROM bookmarks`
	clauses := []string{"owner_id=$1"}
	args := []any{ownerID}

	if filter.Favourited != nil {
		args = append(args, *filter.Favourited)
		clauses = append(clauses, fmt.Sprintf("favourited=$%d", len(args)))
	}
	if filter.Archived != nil {
		args = append(args, *filter.Archived)
		clauses = append(clauses, fmt.Sprintf("archived=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC`, base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookmarks(rows)
}

func scanBookmarks(rows pgx.Rows) ([]domain.Bookmark, error) {
	var result []domain.Bookmark
	for rows.Next() {
		var bookmark domain.Bookmark
		if err := rows.Scan(
			&bookmark.ID,
			&bookmark.OwnerID,
			&bookmark.URL,
			&bookmark.Title,
			&bookmark.Summary,
			&bookmark.Favourited,
			&bookmark.Archived,
			&bookmark.Tags,
			&bookmark.CreatedAt,
			&bookmark.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, bookmark)
	}
	return result, rows.Err()
}
