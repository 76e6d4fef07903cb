package bot

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentkit/internal/domain"
	"contentkit/internal/site"
	"contentkit/pkg/prismic"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []*tgbot.SendMessageParams
	photos   []*tgbot.SendPhotoParams
}

func (s *fakeSender) SendMessage(_ context.Context, p *tgbot.SendMessageParams) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, p)
	return &models.Message{}, nil
}

func (s *fakeSender) SendPhoto(_ context.Context, p *tgbot.SendPhotoParams) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = append(s.photos, p)
	return &models.Message{}, nil
}

func (s *fakeSender) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.messages)
	return s.messages[len(s.messages)-1].Text
}

type fakeDocuments struct {
	docs map[string]*prismic.Document
	err  error
}

func (d *fakeDocuments) GetByID(_ context.Context, id string, _ ...prismic.QueryOption) (*prismic.Document, error) {
	return d.docs[id], d.err
}

func (d *fakeDocuments) GetByUID(_ context.Context, docType, uid string, _ ...prismic.QueryOption) (*prismic.Document, error) {
	for _, doc := range d.docs {
		if doc.Type == docType && doc.UID == uid {
			return doc, d.err
		}
	}
	return nil, d.err
}

type memoryRepo struct {
	bookmarks map[int64][]domain.Bookmark
}

func (r *memoryRepo) SaveBookmark(_ context.Context, b domain.Bookmark) error {
	r.bookmarks[b.UserID] = append(r.bookmarks[b.UserID], b)
	return nil
}

func (r *memoryRepo) BookmarksByUser(_ context.Context, userID int64) ([]domain.Bookmark, error) {
	return r.bookmarks[userID], nil
}

func (r *memoryRepo) DeleteBookmark(_ context.Context, userID int64, documentID string) error {
	kept := r.bookmarks[userID][:0]
	for _, b := range r.bookmarks[userID] {
		if b.DocumentID != documentID {
			kept = append(kept, b)
		}
	}
	r.bookmarks[userID] = kept
	return nil
}

func (r *memoryRepo) Close() error { return nil }

type fakePreviewer struct {
	html string
	err  error
}

func (p *fakePreviewer) Snapshot(_ context.Context, html string) ([]byte, error) {
	p.html = html
	return []byte("\x89PNG"), p.err
}

func setupHandler(t *testing.T) (*Handler, *fakeDocuments, *memoryRepo, *fakePreviewer) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	docs := &fakeDocuments{docs: map[string]*prismic.Document{"UlfoxUnM0wkXYXbm": parseArticle(t)}}
	repo := &memoryRepo{bookmarks: map[int64][]domain.Bookmark{}}
	previewer := &fakePreviewer{}
	h := newHandler(docs, repo, previewer, site.Resolver("/document/{id}/{slug}"), logger)
	return h, docs, repo, previewer
}

func message(text string) *models.Message {
	return &models.Message{
		Text: text,
		Chat: models.Chat{ID: 42},
		From: &models.User{ID: 7},
	}
}

func TestMatchCommand(t *testing.T) {
	match := matchCommand("/save")
	assert.True(t, match(&models.Update{Message: message("/save abc")}))
	assert.True(t, match(&models.Update{Message: message("/save@contentkit_bot abc")}))
	assert.False(t, match(&models.Update{Message: message("/saved")}), "Prefixes must not match")
	assert.False(t, match(&models.Update{Message: message("")}))
	assert.False(t, match(&models.Update{}))
}

func TestHandler_Document(t *testing.T) {
	h, _, _, _ := setupHandler(t)
	s := &fakeSender{}
	ctx := context.Background()

	h.document(ctx, s, message("/doc UlfoxUnM0wkXYXbm"), []string{"UlfoxUnM0wkXYXbm"})
	require.Len(t, s.messages, 1)
	assert.Equal(t, int64(42), s.messages[0].ChatID)
	assert.Equal(t, models.ParseModeHTML, s.messages[0].ParseMode)
	assert.Contains(t, s.messages[0].Text, "<b>Tips &amp; tricks</b>")

	h.document(ctx, s, message("/doc nope"), []string{"nope"})
	assert.Equal(t, "Document not found.", s.lastText(t))

	h.document(ctx, s, message("/doc"), nil)
	assert.Contains(t, s.lastText(t), "Usage: /doc")
}

func TestHandler_DocumentByUID(t *testing.T) {
	h, _, _, _ := setupHandler(t)
	s := &fakeSender{}

	h.documentByUID(context.Background(), s, message("/uid article tips"), []string{"article", "tips"})
	require.Len(t, s.messages, 1)
	assert.Contains(t, s.messages[0].Text, "<b>Tips &amp; tricks</b>")
}

func TestHandler_FetchError(t *testing.T) {
	h, docs, _, _ := setupHandler(t)
	docs.err = errors.New("boom")
	s := &fakeSender{}

	h.document(context.Background(), s, message("/doc x"), []string{"x"})
	assert.Equal(t, "Could not fetch the document.", s.lastText(t))
}

func TestHandler_Preview(t *testing.T) {
	h, _, _, previewer := setupHandler(t)
	s := &fakeSender{}
	ctx := context.Background()

	h.preview(ctx, s, message("/preview UlfoxUnM0wkXYXbm"), []string{"UlfoxUnM0wkXYXbm"})
	require.Len(t, s.photos, 1)
	assert.Equal(t, "<b>Tips &amp; tricks</b>", s.photos[0].Caption)
	assert.Contains(t, previewer.html, "<title>Tips &amp; tricks</title>")
	assert.Contains(t, previewer.html, `<section data-field="article.body">`)

	previewer.err = errors.New("no browser")
	h.preview(ctx, s, message("/preview UlfoxUnM0wkXYXbm"), []string{"UlfoxUnM0wkXYXbm"})
	assert.Equal(t, "Could not render a preview of this document.", s.lastText(t))

	h.previewer = nil
	h.preview(ctx, s, message("/preview UlfoxUnM0wkXYXbm"), []string{"UlfoxUnM0wkXYXbm"})
	assert.Equal(t, "Previews are not enabled.", s.lastText(t))
}

func TestHandler_Bookmarks(t *testing.T) {
	h, _, repo, _ := setupHandler(t)
	s := &fakeSender{}
	ctx := context.Background()

	h.saved(ctx, s, message("/saved"), nil)
	assert.Equal(t, "You have no bookmarks yet.", s.lastText(t))

	h.save(ctx, s, message("/save UlfoxUnM0wkXYXbm"), []string{"UlfoxUnM0wkXYXbm"})
	assert.Equal(t, "Saved <b>Tips &amp; tricks</b>.", s.lastText(t))
	require.Len(t, repo.bookmarks[7], 1)
	b := repo.bookmarks[7][0]
	assert.Equal(t, "article", b.Type)
	assert.Equal(t, "/document/UlfoxUnM0wkXYXbm/tips-to-dress-a-pastry", b.URL)

	h.saved(ctx, s, message("/saved"), nil)
	assert.Equal(t,
		`1. <a href="/document/UlfoxUnM0wkXYXbm/tips-to-dress-a-pastry">Tips &amp; tricks</a> (<code>UlfoxUnM0wkXYXbm</code>)`,
		s.lastText(t))

	h.forget(ctx, s, message("/forget UlfoxUnM0wkXYXbm"), []string{"UlfoxUnM0wkXYXbm"})
	assert.Equal(t, "Bookmark removed.", s.lastText(t))
	assert.Empty(t, repo.bookmarks[7])
}

func TestHandler_Start(t *testing.T) {
	h, _, _, _ := setupHandler(t)
	s := &fakeSender{}

	h.start(context.Background(), s, message("/start"), nil)
	assert.Contains(t, s.lastText(t), "/doc &lt;id&gt;")
}
