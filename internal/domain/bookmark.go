package domain

import "time"

// Bookmark is a document a chat user saved for later.
type Bookmark struct {
	// DocumentID is the repository id of the saved document.
	DocumentID string `json:"document_id"`

	// Type is the document type, e.g. "article".
	Type string `json:"type"`

	// Title is the document title at the time it was saved.
	Title string `json:"title"`

	// URL is where the link resolver sends readers of the document.
	URL string `json:"url"`

	// UserID is the Telegram user who saved the document.
	UserID int64 `json:"user_id"`

	// Timestamp indicates when the document was saved.
	Timestamp time.Time `json:"timestamp"`
}
