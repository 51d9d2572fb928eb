package extract

import (
	"context"
	"errors"
)

// ErrExtraction wraps all extraction failures.
var ErrExtraction = errors.New("text extraction failed")

// Extractor pulls plain text out of a stored file. Implementations shell out
// to external tools, so calls are blocking and honor the context.
type Extractor interface {
	// Extract returns the text content of the file at path. mimeType selects
	// the extraction strategy.
	Extract(ctx context.Context, path string, mimeType string) (string, error)
}
