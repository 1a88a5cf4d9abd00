package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/dgallion1/layoutcheck/internal/layout"
	pdflib "github.com/ledongthuc/pdf"
)

// defaultPageTop is the US Letter height, used when no MediaBox is found.
const defaultPageTop = 792.0

// PDFExtractor reads first-page blocks with the Go PDF library and, if that
// fails, falls back to pdftotext when enabled.
type PDFExtractor struct {
	FallbackPdftotext bool
	Grouping          Grouping
	Stats             *Stats       // Optional.
	Log               *slog.Logger // nil => slog.Default()
}

func (e *PDFExtractor) ExtractFirstPage(path string) (_ []layout.TextBlock, err error) {
	log := e.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("path", path)

	start := time.Now()
	defer func() {
		if e.Stats != nil {
			e.Stats.Record(time.Since(start), err != nil)
		}
	}()

	blocks, err := e.extractNative(path)
	if err != nil && e.FallbackPdftotext {
		log.Warn("pdf decode failed, trying pdftotext", "error", err)
		var fbErr error
		blocks, fbErr = extractPdftotext(path)
		if fbErr != nil {
			err = errors.Join(err, fbErr)
		} else {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptDocument, path, err)
	}

	log.Debug("extracted first page", "blocks", len(blocks), "duration_ms", time.Since(start).Milliseconds())
	return blocks, nil
}

func (e *PDFExtractor) extractNative(path string) ([]layout.TextBlock, error) {
	texts, top, err := readFirstPage(path)
	if err != nil {
		return nil, err
	}
	return GroupBlocks(texts, top, e.Grouping), nil
}

// readFirstPage opens the file, decodes page 1 and releases the handle before
// returning. The decoder panics on some malformed streams, so panics are
// turned into errors.
func readFirstPage(path string) (texts []pdflib.Text, top float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts, top = nil, 0
			err = fmt.Errorf("decode pdf: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	if reader.NumPage() < 1 {
		return nil, 0, errors.New("document has no pages")
	}
	page := reader.Page(1)
	if page.V.IsNull() {
		return nil, 0, errors.New("first page is missing")
	}
	return page.Content().Text, pageTop(page), nil
}

// pageTop returns the upper edge of the MediaBox, which may be inherited
// from a parent Pages node.
func pageTop(page pdflib.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		if mb := v.Key("MediaBox"); mb.Len() == 4 {
			return mb.Index(3).Float64()
		}
	}
	return defaultPageTop
}

func extractPdftotext(path string) ([]layout.TextBlock, error) {
	cmd := exec.Command("pdftotext", "-bbox-layout", "-f", "1", "-l", "1", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return parseBBoxLayout(out)
}
