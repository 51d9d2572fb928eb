package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// ToolExtractor extracts text with external command line tools: tesseract for
// images, pdftotext for PDFs. Plain text files are read directly.
type ToolExtractor struct {
	timeout time.Duration
}

func NewToolExtractor() *ToolExtractor {
	return &ToolExtractor{timeout: defaultTimeout}
}

func (e *ToolExtractor) Extract(ctx context.Context, path string, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	switch {
	case strings.HasPrefix(mimeType, "text/"):
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", ErrExtraction, path, err)
		}
		return string(data), nil

	case strings.HasPrefix(mimeType, "image/"):
		return e.run(ctx, "tesseract", path, "stdout")

	case mimeType == "application/pdf":
		return e.run(ctx, "pdftotext", path, "-")

	default:
		return "", fmt.Errorf("%w: unsupported type %s", ErrExtraction, mimeType)
	}
}

func (e *ToolExtractor) run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtraction, name, err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", fmt.Errorf("%w: %s produced no text", ErrExtraction, name)
	}
	return text, nil
}
