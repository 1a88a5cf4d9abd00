package document

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/layoutcheck/internal/extract"
	"github.com/dgallion1/layoutcheck/internal/layout"
)

// Extension is the only accepted file extension. The match is case-sensitive.
const Extension = ".pdf"

var (
	ErrInvalidPath         = errors.New("path does not reference an existing file")
	ErrUnsupportedFileType = errors.New("file type must be pdf")
)

// Document is the parsed first page of one PDF. It is immutable once loaded.
type Document struct {
	path   string
	params layout.ParameterMap
}

// Loader validates, extracts and parses documents.
type Loader struct {
	Extractor extract.BlockExtractor
	Parser    layout.Parser
	Log       *slog.Logger // nil => slog.Default()
}

// Load builds a Document from path. Any validation, extraction or parse
// failure aborts construction.
func (l *Loader) Load(path string) (*Document, error) {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}

	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	blocks, err := l.Extractor.ExtractFirstPage(path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}

	params, err := l.Parser.Parse(blocks)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	log.Debug("loaded document", "path", path, "blocks", len(blocks), "params", len(params))
	return &Document{path: path, params: params}, nil
}

// ValidatePath checks that path is an existing regular file ending in .pdf.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidPath, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %q is not a regular file", ErrInvalidPath, path)
	}
	if ext := filepath.Ext(path); ext != Extension {
		return fmt.Errorf("%w: %q has extension %q", ErrUnsupportedFileType, path, ext)
	}
	return nil
}

func (d *Document) Path() string {
	return d.path
}

// Params returns a copy of the parameter map.
func (d *Document) Params() layout.ParameterMap {
	return d.params.Clone()
}

// Values returns the key -> value projection for display.
func (d *Document) Values() map[string]string {
	return d.params.Values()
}

// CompareTo checks d against reference. Only the reference's keys are checked.
func (d *Document) CompareTo(reference *Document, opts layout.CompareOptions) layout.Result {
	return layout.Compare(d.params, reference.params, opts)
}
