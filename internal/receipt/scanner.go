package receipt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mmynk/billsplit/internal/models"
)

// Scanner runs the whole pipeline: preprocess, OCR, parse.
type Scanner struct {
	extractor Extractor
}

// NewScanner creates a Scanner backed by the given OCR extractor.
func NewScanner(extractor Extractor) *Scanner {
	return &Scanner{extractor: extractor}
}

// Scan parses the items on a receipt photo.
// Returns ErrNoItems when the OCR text contains no priced lines.
func (s *Scanner) Scan(ctx context.Context, image io.Reader) ([]models.Item, error) {
	var buf bytes.Buffer
	if err := Preprocess(image, &buf); err != nil {
		return nil, err
	}
	slog.Debug("Receipt image preprocessed", "png_bytes", buf.Len())

	text, err := s.extractor.ExtractText(ctx, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	return ParseText(text)
}
