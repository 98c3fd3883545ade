package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/AnSingh1/DoorDetection/internal/common"
	"github.com/AnSingh1/DoorDetection/internal/frame"
)

// rasterizePDF renders every page of a PDF at the configured DPI via
// pdftoppm, in page order. Page frames are named <base>_page_<n> (1-based).
func (n *Normalizer) rasterizePDF(ctx context.Context, doc SourceDocument) ([]frame.Frame, error) {
	tmpDir, err := os.MkdirTemp("", "dd-pdf-*")
	if err != nil {
		return nil, common.WrapError(err, "pdf scratch dir")
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	in := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(in, doc.Data, 0o600); err != nil {
		return nil, common.WrapError(err, "pdf scratch file")
	}

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-r", strconv.Itoa(n.cfg.DPI), "-png", in, prefix}
	if _, errb, err := n.runner.Run(ctx, n.cfg.Pdftoppm, args...); err != nil {
		return nil, common.NewAppError("CORRUPT_INPUT",
			fmt.Sprintf("rasterizing %s: %v: %s", doc.Filename, err, truncate(string(errb), 512)),
			common.ErrCorruptInput)
	}

	pages, err := collectPages(tmpDir, "page")
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, common.NewAppError("CORRUPT_INPUT",
			fmt.Sprintf("%s produced no pages", doc.Filename),
			common.ErrCorruptInput)
	}

	base := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))
	frames := make([]frame.Frame, 0, len(pages))
	for i, p := range pages {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, common.WrapError(err, "reading rasterized page")
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, common.NewAppError("CORRUPT_INPUT",
				fmt.Sprintf("decoding page %d of %s: %v", i+1, doc.Filename, err),
				common.ErrCorruptInput)
		}
		frames = append(frames, frame.New(fmt.Sprintf("%s_page_%d", base, i+1), img))
	}
	return frames, nil
}

// collectPages lists <prefix>-<n>.png files and orders them numerically.
// pdftoppm zero-pads page numbers depending on the page count, so the
// suffix must be parsed rather than sorted lexically.
func collectPages(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, common.WrapError(err, "listing rasterized pages")
	}

	type page struct {
		n    int
		path string
	}
	var pages []page
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix+"-") || !strings.HasSuffix(name, ".png") {
			continue
		}
		numPart := strings.TrimSuffix(strings.TrimPrefix(name, prefix+"-"), ".png")
		num, err := strconv.Atoi(numPart)
		if err != nil {
			continue
		}
		pages = append(pages, page{n: num, path: filepath.Join(dir, name)})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })

	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.path
	}
	return out, nil
}
