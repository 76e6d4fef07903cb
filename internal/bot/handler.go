package bot

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"contentkit/internal/config"
	"contentkit/internal/domain"
	"contentkit/internal/preview"
	"contentkit/internal/site"
	"contentkit/internal/storage"
	"contentkit/pkg/fragments"
	"contentkit/pkg/prismic"
)

// Documents looks documents up in the content repository.
type Documents interface {
	GetByID(ctx context.Context, id string, opts ...prismic.QueryOption) (*prismic.Document, error)
	GetByUID(ctx context.Context, docType, uid string, opts ...prismic.QueryOption) (*prismic.Document, error)
}

// sender is the part of *tgbot.Bot the handlers reply through.
type sender interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *tgbot.SendPhotoParams) (*models.Message, error)
}

const welcomeMessage = `Welcome to contentkit! I publish documents of the content repository.

/doc <id> shows a document
/uid <type> <uid> shows a document by its uid
/preview <id> sends a rendered snapshot
/save <id> bookmarks a document
/saved lists your bookmarks
/forget <id> removes a bookmark`

// Handler holds dependencies for the Telegram bot handlers.
type Handler struct {
	bot       *tgbot.Bot
	docs      Documents
	repo      storage.Repository
	previewer preview.Previewer
	resolver  fragments.LinkResolver
	formatter *TelegramFormatter
	log       logrus.FieldLogger
}

// NewHandler creates a new bot handler instance. previewer may be nil, in
// which case /preview is answered with an explanation.
func NewHandler(cfg config.Config, docs Documents, repo storage.Repository, previewer preview.Previewer, logger logrus.FieldLogger) (*Handler, error) {
	log := logger.WithField("component", "bot_handler")

	h := newHandler(docs, repo, previewer, site.Resolver(cfg.LinkPattern), log)

	b, err := tgbot.New(cfg.TelegramBotToken, tgbot.WithDefaultHandler(h.defaultHandler))
	if err != nil {
		log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b
	h.registerHandlers()

	log.Info("Telegram bot handler initialized")
	return h, nil
}

func newHandler(docs Documents, repo storage.Repository, previewer preview.Previewer, resolver fragments.LinkResolver, log logrus.FieldLogger) *Handler {
	return &Handler{
		docs:      docs,
		repo:      repo,
		previewer: previewer,
		resolver:  resolver,
		formatter: NewTelegramFormatter(resolver),
		log:       log,
	}
}

// registerHandlers sets up the command and message handlers.
func (h *Handler) registerHandlers() {
	commands := map[string]func(ctx context.Context, s sender, msg *models.Message, args []string){
		"/start":   h.start,
		"/doc":     h.document,
		"/uid":     h.documentByUID,
		"/preview": h.preview,
		"/save":    h.save,
		"/saved":   h.saved,
		"/forget":  h.forget,
	}
	for name, fn := range commands {
		h.bot.RegisterHandlerMatchFunc(matchCommand(name), h.command(name, fn))
		h.log.WithField("command", name).Debug("Registered command handler")
	}
}

// matchCommand matches messages whose first word is name, with or without
// a trailing @botname.
func matchCommand(name string) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		fields := strings.Fields(update.Message.Text)
		if len(fields) == 0 {
			return false
		}
		cmd, _, _ := strings.Cut(fields[0], "@")
		return cmd == name
	}
}

// command adapts fn to the library's handler signature.
func (h *Handler) command(name string, fn func(context.Context, sender, *models.Message, []string)) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		args := strings.Fields(update.Message.Text)
		if len(args) > 0 {
			args = args[1:]
		}
		h.log.WithFields(logrus.Fields{
			"chat_id": update.Message.Chat.ID,
			"command": name,
		}).Info("Received command")
		fn(ctx, b, update.Message, args)
	}
}

// Start begins polling for updates from Telegram.
// This function blocks until the context is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

func (h *Handler) defaultHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.log.WithFields(logrus.Fields{
		"chat_id": update.Message.Chat.ID,
		"text":    update.Message.Text,
	}).Debug("Received unhandled message (default handler)")
}

func (h *Handler) start(ctx context.Context, s sender, msg *models.Message, _ []string) {
	h.reply(ctx, s, msg, html.EscapeString(welcomeMessage))
}

func (h *Handler) document(ctx context.Context, s sender, msg *models.Message, args []string) {
	if len(args) != 1 {
		h.reply(ctx, s, msg, "Usage: /doc &lt;id&gt;")
		return
	}
	doc, ok := h.lookup(ctx, s, msg, func() (*prismic.Document, error) { return h.docs.GetByID(ctx, args[0]) })
	if !ok {
		return
	}
	h.sendDocument(ctx, s, msg, doc)
}

func (h *Handler) documentByUID(ctx context.Context, s sender, msg *models.Message, args []string) {
	if len(args) != 2 {
		h.reply(ctx, s, msg, "Usage: /uid &lt;type&gt; &lt;uid&gt;")
		return
	}
	doc, ok := h.lookup(ctx, s, msg, func() (*prismic.Document, error) { return h.docs.GetByUID(ctx, args[0], args[1]) })
	if !ok {
		return
	}
	h.sendDocument(ctx, s, msg, doc)
}

func (h *Handler) preview(ctx context.Context, s sender, msg *models.Message, args []string) {
	if len(args) != 1 {
		h.reply(ctx, s, msg, "Usage: /preview &lt;id&gt;")
		return
	}
	if h.previewer == nil {
		h.reply(ctx, s, msg, "Previews are not enabled.")
		return
	}
	doc, ok := h.lookup(ctx, s, msg, func() (*prismic.Document, error) { return h.docs.GetByID(ctx, args[0]) })
	if !ok {
		return
	}

	title := Title(doc)
	png, err := h.previewer.Snapshot(ctx, preview.Page(title, doc.AsHTML(h.resolver, nil)))
	if err != nil {
		h.log.WithError(err).WithField("document_id", doc.ID).Error("Failed to take snapshot")
		h.reply(ctx, s, msg, "Could not render a preview of this document.")
		return
	}
	_, err = s.SendPhoto(ctx, &tgbot.SendPhotoParams{
		ChatID:    msg.Chat.ID,
		Photo:     &models.InputFileUpload{Filename: doc.ID + ".png", Data: bytes.NewReader(png)},
		Caption:   "<b>" + html.EscapeString(title) + "</b>",
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.log.WithError(err).Error("Failed to send snapshot")
	}
}

func (h *Handler) save(ctx context.Context, s sender, msg *models.Message, args []string) {
	if len(args) != 1 {
		h.reply(ctx, s, msg, "Usage: /save &lt;id&gt;")
		return
	}
	doc, ok := h.lookup(ctx, s, msg, func() (*prismic.Document, error) { return h.docs.GetByID(ctx, args[0]) })
	if !ok {
		return
	}
	b := domain.Bookmark{
		DocumentID: doc.ID,
		Type:       doc.Type,
		Title:      Title(doc),
		URL:        h.resolver(doc.AsLink()),
		UserID:     senderID(msg),
	}
	if err := h.repo.SaveBookmark(ctx, b); err != nil {
		h.log.WithError(err).Error("Failed to save bookmark")
		h.reply(ctx, s, msg, "Could not save the bookmark.")
		return
	}
	h.reply(ctx, s, msg, "Saved <b>"+html.EscapeString(b.Title)+"</b>.")
}

func (h *Handler) saved(ctx context.Context, s sender, msg *models.Message, _ []string) {
	bookmarks, err := h.repo.BookmarksByUser(ctx, senderID(msg))
	if err != nil {
		h.log.WithError(err).Error("Failed to list bookmarks")
		h.reply(ctx, s, msg, "Could not list your bookmarks.")
		return
	}
	if len(bookmarks) == 0 {
		h.reply(ctx, s, msg, "You have no bookmarks yet.")
		return
	}
	lines := make([]string, 0, len(bookmarks))
	for i, b := range bookmarks {
		title := html.EscapeString(b.Title)
		if b.URL != "" {
			title = `<a href="` + html.EscapeString(b.URL) + `">` + title + `</a>`
		}
		lines = append(lines, fmt.Sprintf("%d. %s (<code>%s</code>)", i+1, title, html.EscapeString(b.DocumentID)))
	}
	for _, chunk := range Split(strings.Join(lines, "\n"), MaxMessageLength) {
		h.reply(ctx, s, msg, chunk)
	}
}

func (h *Handler) forget(ctx context.Context, s sender, msg *models.Message, args []string) {
	if len(args) != 1 {
		h.reply(ctx, s, msg, "Usage: /forget &lt;id&gt;")
		return
	}
	if err := h.repo.DeleteBookmark(ctx, senderID(msg), args[0]); err != nil {
		h.log.WithError(err).Error("Failed to delete bookmark")
		h.reply(ctx, s, msg, "Could not remove the bookmark.")
		return
	}
	h.reply(ctx, s, msg, "Bookmark removed.")
}

// lookup runs fetch and answers the chat itself when there is no document
// to show.
func (h *Handler) lookup(ctx context.Context, s sender, msg *models.Message, fetch func() (*prismic.Document, error)) (*prismic.Document, bool) {
	doc, err := fetch()
	if err != nil {
		h.log.WithError(err).Error("Failed to fetch document")
		h.reply(ctx, s, msg, "Could not fetch the document.")
		return nil, false
	}
	if doc == nil {
		h.reply(ctx, s, msg, "Document not found.")
		return nil, false
	}
	return doc, true
}

func (h *Handler) sendDocument(ctx context.Context, s sender, msg *models.Message, doc *prismic.Document) {
	for _, chunk := range h.formatter.Format(doc) {
		h.reply(ctx, s, msg, chunk)
	}
}

func (h *Handler) reply(ctx context.Context, s sender, msg *models.Message, text string) {
	_, err := s.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    msg.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.log.WithError(err).WithField("chat_id", msg.Chat.ID).Error("Failed to send message")
	}
}

// senderID identifies the user behind msg, falling back to the chat for
// channel posts.
func senderID(msg *models.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}
