package storage

import (
	"context"

	"contentkit/internal/domain"
)

// Repository stores the bookmarks of chat users.
type Repository interface {
	// SaveBookmark stores a bookmark, replacing the one the user already had
	// for the same document.
	SaveBookmark(ctx context.Context, b domain.Bookmark) error

	// BookmarksByUser returns the bookmarks of a user, newest first.
	BookmarksByUser(ctx context.Context, userID int64) ([]domain.Bookmark, error)

	// DeleteBookmark removes a bookmark. Deleting a missing one is not an error.
	DeleteBookmark(ctx context.Context, userID int64, documentID string) error

	// Close gracefully shuts down the repository connection.
	Close() error
}
