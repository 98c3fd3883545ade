package ingest

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnSingh1/DoorDetection/internal/common"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// stubRunner fakes pdftoppm by writing pre-baked page files next to the
// output prefix it is asked to use.
type stubRunner struct {
	pages int
	fail  error
	calls [][]string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if s.fail != nil {
		return nil, []byte("Syntax Error: couldn't read xref table"), s.fail
	}
	prefix := args[len(args)-1]
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30))); err != nil {
		return nil, nil, err
	}
	for i := 1; i <= s.pages; i++ {
		name := prefix + "-" + strconv.Itoa(i) + ".png"
		if err := os.WriteFile(name, buf.Bytes(), 0o600); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func TestNormalizeImage(t *testing.T) {
	n := NewNormalizer(Config{}, nil)
	doc := SourceDocument{Filename: "plan.png", Data: pngBytes(t, 120, 80)}

	frames, err := n.Normalize(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "plan.png", frames[0].Name, "single images keep their original filename")
	assert.Equal(t, 120, frames[0].Width())
	assert.Equal(t, 80, frames[0].Height())
}

func TestNormalizeUppercaseExtension(t *testing.T) {
	n := NewNormalizer(Config{}, nil)
	doc := SourceDocument{Filename: "PLAN.PNG", Data: pngBytes(t, 10, 10)}

	frames, err := n.Normalize(context.Background(), doc)
	require.NoError(t, err)
	assert.Len(t, frames, 1)
}

func TestNormalizeUnsupportedExtension(t *testing.T) {
	n := NewNormalizer(Config{}, nil)
	doc := SourceDocument{Filename: "plan.svg", Data: []byte("<svg/>")}

	_, err := n.Normalize(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestNormalizeCorruptImage(t *testing.T) {
	n := NewNormalizer(Config{}, nil)
	doc := SourceDocument{Filename: "plan.png", Data: []byte("not a png at all")}

	_, err := n.Normalize(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCorruptInput)
}

func TestNormalizePDFMultiPage(t *testing.T) {
	runner := &stubRunner{pages: 2}
	n := NewNormalizer(Config{Runner: runner, DPI: 150}, nil)
	doc := SourceDocument{Filename: "blueprint.pdf", Data: []byte("%PDF-1.4 stub")}

	frames, err := n.Normalize(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, "blueprint_page_1", frames[0].Name)
	assert.Equal(t, "blueprint_page_2", frames[1].Name)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "pdftoppm", call[0])
	assert.Contains(t, call, "-r")
	assert.Contains(t, call, "150")
	assert.Contains(t, call, "-png")
}

func TestNormalizePDFRasterizerFailure(t *testing.T) {
	runner := &stubRunner{fail: errors.New("exit status 1")}
	n := NewNormalizer(Config{Runner: runner}, nil)
	doc := SourceDocument{Filename: "broken.pdf", Data: []byte("garbage")}

	_, err := n.Normalize(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCorruptInput)
}

func TestNormalizePDFNoPages(t *testing.T) {
	runner := &stubRunner{pages: 0}
	n := NewNormalizer(Config{Runner: runner}, nil)
	doc := SourceDocument{Filename: "empty.pdf", Data: []byte("%PDF-1.4")}

	_, err := n.Normalize(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCorruptInput)
}

func TestCollectPagesNumericOrder(t *testing.T) {
	dir := t.TempDir()
	// zero-padded names must sort by page number, not lexically
	for _, name := range []string{"page-10.png", "page-2.png", "page-1.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	pages, err := collectPages(dir, "page")
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, filepath.Join(dir, "page-1.png"), pages[0])
	assert.Equal(t, filepath.Join(dir, "page-2.png"), pages[1])
	assert.Equal(t, filepath.Join(dir, "page-10.png"), pages[2])
}
