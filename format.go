package emspace

import (
	"fmt"
	"io"
)

// Format normalizes the spacing around emphasis markers in text. The enabled
// stages run in order over the whole document: internal-space removal, bold
// spacing, then italic spacing. Format is idempotent and safe for concurrent
// use.
func Format(text string, cfg Config) string {
	if cfg.RemoveInternalBoldSpaces {
		text = processDocument(text, stageTrim, cfg)
	}
	if cfg.boldSpacing() {
		text = processDocument(text, stageBold, cfg)
	}
	if cfg.SpaceBetweenChineseAndItalic {
		text = processDocument(text, stageItalic, cfg)
	}
	return text
}

// FormatRequest configures FormatStream.
type FormatRequest struct {
	Reader io.Reader
	// Writer receives the formatted document. It may be nil when only the
	// Result is wanted.
	Writer io.Writer
	Config Config
}

// Result is the outcome of formatting one document.
type Result struct {
	Original  string
	Formatted string
	Changed   bool
}

// FormatStream reads a whole document from Reader, validates it and formats
// it. Input that is not UTF-8 text is rejected before any rewriting.
func FormatStream(req FormatRequest) (Result, error) {
	if req.Reader == nil {
		return Result{}, fmt.Errorf("format: reader is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return Result{}, fmt.Errorf("format: read: %w", err)
	}
	if err := ValidateInput(src); err != nil {
		return Result{}, fmt.Errorf("format: %w", err)
	}
	original := string(src)
	formatted := Format(original, req.Config)
	res := Result{
		Original:  original,
		Formatted: formatted,
		Changed:   formatted != original,
	}
	if req.Writer != nil {
		if _, err := io.WriteString(req.Writer, formatted); err != nil {
			return res, fmt.Errorf("format: write: %w", err)
		}
	}
	return res, nil
}
