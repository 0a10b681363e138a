package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/billsplit/internal/display"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/route"
)

// splitter lists what was read off the receipt.
type splitter struct {
	items     []models.Item
	receiptID string
}

func newSplitter(r route.Route) (splitter, error) {
	s := splitter{items: []models.Item{}}
	if err := r.Param("items", &s.items); err != nil {
		return s, err
	}
	if err := r.Param("receipt_id", &s.receiptID); err != nil {
		return s, err
	}
	return s, nil
}

func (s splitter) Init() tea.Cmd { return nil }

func (s splitter) Update(msg tea.Msg) (screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			r, err := route.New(route.Home).With("items", s.items)
			if err == nil {
				r, err = r.With("receipt_id", s.receiptID)
			}
			if err != nil {
				return s, nil
			}
			return s, navigate(r)
		case "esc", "q":
			return s, back
		}
	}
	return s, nil
}

func (s splitter) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Items"))
	b.WriteString("\n\n")
	if len(s.items) == 0 {
		b.WriteString(mutedStyle.Render("No items."))
		b.WriteString("\n")
	}
	for _, it := range s.items {
		b.WriteString(display.FormatItem(it))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter split • esc back"))
	return panelStyle.Render(b.String())
}
