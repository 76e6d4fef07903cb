package preview

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestPage(t *testing.T) {
	got := Page("Fish & <Chips>", "<p>body</p>")
	assert.Contains(t, got, "<title>Fish &amp; &lt;Chips&gt;</title>")
	assert.Contains(t, got, "<body><p>body</p></body>")
	assert.True(t, len(got) > 0 && got[:15] == "<!DOCTYPE html>")
}

func TestNewRodPreviewer_Options(t *testing.T) {
	p := NewRodPreviewer(testLogger(), WithTimeout(5*time.Second), WithBrowserBin("/opt/chrome"))
	assert.Equal(t, 5*time.Second, p.timeout)
	assert.Equal(t, "/opt/chrome", p.bin)

	p = NewRodPreviewer(testLogger(), WithTimeout(0))
	assert.Equal(t, defaultTimeout, p.timeout, "Non-positive timeout should keep the default")
}

func TestRodPreviewer_MissingBrowser(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "no-such-browser")
	p := NewRodPreviewer(testLogger(), WithBrowserBin(bin), WithTimeout(5*time.Second))

	_, err := p.Snapshot(context.Background(), Page("t", "<p>x</p>"))
	assert.Error(t, err)
}

func TestRodPreviewer_Snapshot(t *testing.T) {
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no browser available for rod")
	}
	p := NewRodPreviewer(testLogger(), WithTimeout(time.Minute))

	png, err := p.Snapshot(context.Background(), Page("Snapshot", "<h1>Hello</h1><p>world</p>"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "Snapshot should be a PNG")
}
