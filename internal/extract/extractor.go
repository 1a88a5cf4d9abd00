package extract

import (
	"errors"

	"github.com/dgallion1/layoutcheck/internal/layout"
)

// ErrCorruptDocument means the file could not be decoded as a PDF.
var ErrCorruptDocument = errors.New("corrupt document")

// BlockExtractor returns the text blocks of a document's first page in
// document order.
type BlockExtractor interface {
	ExtractFirstPage(path string) ([]layout.TextBlock, error)
}
