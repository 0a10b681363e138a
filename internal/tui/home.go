package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/billsplit/internal/display"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/route"
)

// maxDrag bounds how far an item can be pulled from its slot, in cells.
const maxDrag = 20

// offset is how far a grabbed item has been dragged. It snaps back to zero on release.
type offset struct {
	x, y int
}

// home shows the parsed items and the friends splitting them.
type home struct {
	ctx context.Context
	api API

	items     []models.Item
	receiptID string
	friends   []models.Friend

	cursor  int
	grabbed bool
	drag    offset

	modal *friendsModal
}

func newHome(ctx context.Context, api API, r route.Route) (home, error) {
	h := home{ctx: ctx, api: api, items: []models.Item{}, friends: []models.Friend{}}
	if err := r.Param("items", &h.items); err != nil {
		return h, err
	}
	if err := r.Param("receipt_id", &h.receiptID); err != nil {
		return h, err
	}
	if err := r.Param("friends", &h.friends); err != nil {
		return h, err
	}
	return h, nil
}

func (h home) Init() tea.Cmd { return nil }

func (h home) Update(msg tea.Msg) (screen, tea.Cmd) {
	if closed, ok := msg.(friendsClosedMsg); ok {
		h.modal = nil
		h.friends = closed.selected
		if h.friends == nil {
			h.friends = []models.Friend{}
		}
		slog.Info("Friends selected", "count", len(h.friends))
		return h, nil
	}
	if h.modal != nil {
		modal, cmd := h.modal.Update(msg)
		h.modal = &modal
		return h, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	if h.grabbed {
		switch key.String() {
		case " ":
			h.grabbed = false
			h.drag = offset{}
		case "up", "k":
			h.drag.y = clamp(h.drag.y-1, -maxDrag, maxDrag)
		case "down", "j":
			h.drag.y = clamp(h.drag.y+1, -maxDrag, maxDrag)
		case "left", "h":
			h.drag.x = clamp(h.drag.x-1, -maxDrag, maxDrag)
		case "right", "l":
			h.drag.x = clamp(h.drag.x+1, -maxDrag, maxDrag)
		}
		return h, nil
	}

	switch key.String() {
	case "up", "k":
		if h.cursor > 0 {
			h.cursor--
		}
	case "down", "j":
		if h.cursor < len(h.items)-1 {
			h.cursor++
		}
	case " ":
		if len(h.items) > 0 {
			h.grabbed = true
		}
	case "f":
		modal := newFriendsModal(h.ctx, h.api, usernames(h.friends))
		h.modal = &modal
		return h, modal.Init()
	case "r":
		r, err := route.New(route.Review).With("items", h.items)
		if err == nil {
			r, err = r.With("friends", h.friends)
		}
		if err == nil {
			r, err = r.With("receipt_id", h.receiptID)
		}
		if err != nil {
			slog.Error("Failed to build review route", "error", err)
			return h, nil
		}
		return h, navigate(r)
	case "esc", "q":
		return h, back
	}
	return h, nil
}

func (h home) View() string {
	if h.modal != nil {
		return h.modal.View()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Items"))
	b.WriteString("\n\n")
	if len(h.items) == 0 {
		b.WriteString(mutedStyle.Render("No items."))
		b.WriteString("\n")
	}
	for i, it := range h.items {
		line := display.FormatItem(it)
		switch {
		case i == h.cursor && h.grabbed:
			line = strings.Repeat(" ", max(h.drag.x, 0)) + grabbedStyle.Render(line)
			if h.drag.y != 0 {
				line += mutedStyle.Render(fmt.Sprintf(" (%+d)", h.drag.y))
			}
		case i == h.cursor:
			line = selectedStyle.Render("> ") + line
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Friends"))
	b.WriteString("\n")
	if len(h.friends) == 0 {
		b.WriteString(mutedStyle.Render("No friends selected."))
		b.WriteString("\n")
	}
	for _, f := range h.friends {
		b.WriteString(accentStyle.Render("• " + f.Username))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space grab/release • arrows move • f friends • r review • esc back"))
	return panelStyle.Render(b.String())
}

func usernames(friends []models.Friend) []string {
	out := make([]string, len(friends))
	for i, f := range friends {
		out[i] = f.Username
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
