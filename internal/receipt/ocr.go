package receipt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Extractor turns an image into text.
type Extractor interface {
	ExtractText(ctx context.Context, image io.Reader) (string, error)
}

// Tesseract runs the tesseract command line tool.
type Tesseract struct {
	// Path is the tesseract binary, looked up in PATH when it has no slash.
	Path string
}

// NewTesseract creates an extractor for the given binary path.
func NewTesseract(path string) *Tesseract {
	if path == "" {
		path = "tesseract"
	}
	return &Tesseract{Path: path}
}

// ExtractText feeds image to tesseract on stdin using the LSTM engine (--oem 3)
// and single-block page segmentation (--psm 6).
func (t *Tesseract) ExtractText(ctx context.Context, image io.Reader) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.Path, "stdin", "stdout", "--oem", "3", "--psm", "6")
	cmd.Stdin = image
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("failed to run tesseract: %w", err)
		}
		return "", fmt.Errorf("failed to run tesseract: %w: %s", err, msg)
	}
	return stdout.String(), nil
}
