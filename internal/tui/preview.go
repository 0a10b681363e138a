package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/billsplit/internal/client"
	"github.com/mmynk/billsplit/internal/route"
)

type receiptParsedMsg struct {
	receipt *client.ParsedReceipt
}

type uploadFailedMsg struct {
	err error
}

// preview picks the receipt photo and uploads it.
type preview struct {
	ctx context.Context
	api API

	input     textinput.Model
	uploading bool
}

func newPreview(ctx context.Context, api API) preview {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "path/to/receipt.jpg"
	ti.CharLimit = 1024
	ti.Focus()
	return preview{ctx: ctx, api: api, input: ti}
}

func (p preview) Init() tea.Cmd {
	return textinput.Blink
}

func (p preview) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case receiptParsedMsg:
		p.uploading = false
		r, err := route.New(route.Splitter).With("items", msg.receipt.Items)
		if err == nil {
			r, err = r.With("receipt_id", msg.receipt.ReceiptID)
		}
		if err != nil {
			slog.Error("Failed to build splitter route", "error", err)
			return p, nil
		}
		return p, navigate(r)

	case uploadFailedMsg:
		p.uploading = false
		slog.Error("Error uploading image", "error", msg.err)
		return p, nil

	case tea.KeyMsg:
		if p.uploading {
			return p, nil
		}
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(p.input.Value())
			if path == "" {
				return p, nil
			}
			p.uploading = true
			return p, p.upload(path)
		case "ctrl+r":
			// Retake: start over with an empty path.
			p.input.SetValue("")
			return p, nil
		case "esc":
			return p, back
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p preview) upload(path string) tea.Cmd {
	ctx, api := p.ctx, p.api
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadFailedMsg{err: fmt.Errorf("failed to open photo: %w", err)}
		}
		defer f.Close()

		parsed, err := api.ParseReceipt(ctx, filepath.Base(path), f)
		if err != nil {
			return uploadFailedMsg{err: err}
		}
		return receiptParsedMsg{receipt: parsed}
	}
}

func (p preview) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Receipt photo"))
	b.WriteString("\n\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")
	if p.uploading {
		b.WriteString(accentStyle.Render("Uploading..."))
	} else {
		b.WriteString(mutedStyle.Render("Type the path to a receipt photo."))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter upload • ctrl+r retake • esc quit"))
	return panelStyle.Render(b.String())
}
