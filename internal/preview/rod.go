package preview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// ErrBrowserNotFound is returned when no Chromium executable is available.
var ErrBrowserNotFound = errors.New("rod browser dependency not found")

const defaultTimeout = 30 * time.Second

// RodPreviewer implements Previewer using the rod library. Every snapshot
// launches its own browser.
type RodPreviewer struct {
	log     logrus.FieldLogger
	bin     string
	timeout time.Duration
}

// Option configures a RodPreviewer.
type Option func(*RodPreviewer)

// WithTimeout bounds each snapshot, browser start included.
func WithTimeout(d time.Duration) Option {
	return func(p *RodPreviewer) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithBrowserBin uses the browser at path instead of looking one up.
func WithBrowserBin(path string) Option {
	return func(p *RodPreviewer) { p.bin = path }
}

// NewRodPreviewer creates a new previewer instance.
func NewRodPreviewer(logger logrus.FieldLogger, opts ...Option) *RodPreviewer {
	p := &RodPreviewer{
		log:     logger.WithField("component", "preview"),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot implements Previewer.
func (p *RodPreviewer) Snapshot(ctx context.Context, page string) (png []byte, err error) {
	log := p.log.WithField("bytes", len(page))
	log.Info("Taking snapshot")

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	bin := p.bin
	if bin == "" {
		var exists bool
		bin, exists = launcher.LookPath()
		if !exists {
			log.Error("Cannot find browser executable for rod")
			return nil, ErrBrowserNotFound
		}
	}

	u, err := launcher.New().Context(ctx).Bin(bin).Launch()
	if err != nil {
		log.WithError(err).Error("Failed to launch rod browser")
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	browser := rod.New().Context(ctx).ControlURL(u)
	if err = browser.Connect(); err != nil {
		log.WithError(err).Error("Failed to connect to rod browser")
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.WithError(closeErr).Error("Error closing rod browser instance")
			if err == nil {
				err = fmt.Errorf("error closing browser: %w", closeErr)
			}
		} else {
			log.Debug("Rod browser instance closed")
		}
	}()

	tab, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		log.WithError(err).Error("Failed to create rod page")
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if err = tab.SetDocumentContent(page); err != nil {
		return nil, p.pageError(ctx, log, "set document content", err)
	}
	if err = tab.WaitLoad(); err != nil {
		return nil, p.pageError(ctx, log, "wait for page load", err)
	}

	png, err = tab.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, p.pageError(ctx, log, "capture screenshot", err)
	}

	log.WithField("png_bytes", len(png)).Info("Snapshot completed successfully")
	return png, nil
}

func (p *RodPreviewer) pageError(ctx context.Context, log logrus.FieldLogger, step string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.WithError(ctx.Err()).Warn("Snapshot timed out")
		return fmt.Errorf("snapshot timed out during %s: %w", step, ctx.Err())
	}
	log.WithError(err).Errorf("Failed to %s", step)
	return fmt.Errorf("failed to %s: %w", step, err)
}
