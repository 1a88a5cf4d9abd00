package check

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/layoutcheck/internal/config"
	"github.com/dgallion1/layoutcheck/internal/document"
	"github.com/dgallion1/layoutcheck/internal/extract"
	"github.com/dgallion1/layoutcheck/internal/layout"
)

// ErrReference wraps failures to load the reference template, so callers can
// tell them apart from problems with the candidate.
var ErrReference = errors.New("reference document unavailable")

// Outcome is a candidate compared against the reference.
type Outcome struct {
	Name      string // Display name; the candidate path when empty.
	Candidate *document.Document
	Reference *document.Document
	Result    layout.Result
}

func (o *Outcome) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Candidate.Path()
}

// Conforms reports whether the candidate matched every reference parameter.
func (o *Outcome) Conforms() bool {
	return o.Result.Equivalent
}

// Checker loads documents and compares them with the reference template.
type Checker struct {
	loader        *document.Loader
	referencePath string
	opts          layout.CompareOptions
	log           *slog.Logger
}

func NewChecker(loader *document.Loader, referencePath string, opts layout.CompareOptions, log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		loader:        loader,
		referencePath: referencePath,
		opts:          opts,
		log:           log,
	}
}

// FromConfig wires the PDF extractor, parser and comparison options.
func FromConfig(cfg config.Config, stats *extract.Stats, log *slog.Logger) *Checker {
	loader := &document.Loader{
		Extractor: &extract.PDFExtractor{
			FallbackPdftotext: cfg.PDFFallbackPdftotext,
			Grouping: extract.Grouping{
				RowTolerance: cfg.RowTolerance,
				ColumnGap:    cfg.ColumnGap,
				BlockGap:     cfg.BlockGap,
			},
			Stats: stats,
			Log:   log,
		},
		Parser: layout.Parser{Separator: cfg.Separator},
		Log:    log,
	}
	return NewChecker(loader, cfg.ReferencePath, layout.CompareOptions{AllowDiff: cfg.AllowDiff}, log)
}

// Load parses a single document.
func (c *Checker) Load(path string) (*document.Document, error) {
	return c.loader.Load(path)
}

// Reference loads the reference template. It is read on every call so that
// an updated template takes effect without a restart.
func (c *Checker) Reference() (*document.Document, error) {
	ref, err := c.loader.Load(c.referencePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReference, err)
	}
	return ref, nil
}

// Run loads path and the reference and compares them.
func (c *Checker) Run(path string) (*Outcome, error) {
	log := c.log.With("path", path, "reference", c.referencePath)

	cand, err := c.loader.Load(path)
	if err != nil {
		return nil, err
	}
	ref, err := c.Reference()
	if err != nil {
		return nil, err
	}

	res := cand.CompareTo(ref, c.opts)
	for _, d := range res.Diagnostics {
		log.Warn("layout mismatch", "key", d.Key, "reason", d.Reason, "detail", d.String())
	}
	log.Info("layout check complete", "conforms", res.Equivalent, "mismatches", len(res.Diagnostics))

	return &Outcome{Name: path, Candidate: cand, Reference: ref, Result: res}, nil
}
