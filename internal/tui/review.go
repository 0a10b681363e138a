package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/display"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/route"
)

type paymentsRequestedMsg struct {
	assigned []models.AssignedItem
	results  []models.PaymentResult
}

type submitFailedMsg struct {
	err error
}

// review previews who pays what and sends the payment requests.
type review struct {
	ctx context.Context
	api API

	items     []models.Item
	receiptID string
	friends   []models.Friend

	submitting bool
	assigned   []models.AssignedItem
	results    []models.PaymentResult
}

func newReview(ctx context.Context, api API, r route.Route) (review, error) {
	rv := review{ctx: ctx, api: api, items: []models.Item{}, friends: []models.Friend{}}
	if err := r.Param("items", &rv.items); err != nil {
		return rv, err
	}
	if err := r.Param("friends", &rv.friends); err != nil {
		return rv, err
	}
	if err := r.Param("receipt_id", &rv.receiptID); err != nil {
		return rv, err
	}
	rv.friends = previewAmounts(rv.items, rv.friends)
	return rv, nil
}

// previewAmounts fills each friend's items and amount the way the server will
// assign them.
func previewAmounts(items []models.Item, friends []models.Friend) []models.Friend {
	assigned, err := calculator.Assign(items, usernames(friends))
	if err != nil || len(assigned) == 0 {
		return calculator.FillFriends(friends, nil)
	}
	splits, err := calculator.SplitAssigned(assigned)
	if err != nil {
		slog.Warn("Failed to preview split", "error", err)
		return calculator.FillFriends(friends, nil)
	}
	return calculator.FillFriends(friends, splits)
}

func (rv review) Init() tea.Cmd { return nil }

func (rv review) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case paymentsRequestedMsg:
		rv.submitting = false
		rv.assigned = msg.assigned
		rv.results = msg.results
		return rv, nil

	case submitFailedMsg:
		rv.submitting = false
		slog.Error("Error requesting payments", "error", msg.err)
		return rv, nil

	case tea.KeyMsg:
		if rv.submitting {
			return rv, nil
		}
		switch msg.String() {
		case "s":
			if len(rv.friends) == 0 || len(rv.items) == 0 || rv.results != nil {
				return rv, nil
			}
			rv.submitting = true
			return rv, rv.submit()
		case "esc", "q":
			return rv, back
		}
	}
	return rv, nil
}

// submit assigns the items on the server, then requests a payment per item.
func (rv review) submit() tea.Cmd {
	ctx, api := rv.ctx, rv.api
	receiptID, items, friends := rv.receiptID, rv.items, usernames(rv.friends)
	return func() tea.Msg {
		assigned, err := api.AssignItems(ctx, receiptID, items, friends)
		if err != nil {
			return submitFailedMsg{err: fmt.Errorf("failed to assign items: %w", err)}
		}
		results, err := api.RequestPayments(ctx, receiptID, assigned)
		if err != nil {
			return submitFailedMsg{err: fmt.Errorf("failed to request payments: %w", err)}
		}
		return paymentsRequestedMsg{assigned: assigned, results: results}
	}
}

func (rv review) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Review"))
	b.WriteString("\n\n")

	if len(rv.friends) == 0 {
		b.WriteString(mutedStyle.Render("No friends selected."))
		b.WriteString("\n")
	}
	for _, f := range rv.friends {
		b.WriteString(accentStyle.Render(display.FormatFriend(f)))
		b.WriteString("\n")
		for _, it := range f.Items {
			b.WriteString("    ")
			b.WriteString(mutedStyle.Render(display.FormatItem(it)))
			b.WriteString("\n")
		}
	}

	if rv.results != nil {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Payments"))
		b.WriteString("\n")
		for i, res := range rv.results {
			if i < len(rv.assigned) {
				b.WriteString(mutedStyle.Render(display.FormatAssigned(rv.assigned[i])))
				b.WriteString("  ")
			}
			b.WriteString(statusStyle(string(res.Status)).Render(fmt.Sprintf("[%s] %s", res.Status, res.Message)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if rv.submitting {
		b.WriteString(accentStyle.Render("Requesting payments..."))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("s send requests • esc back"))
	return panelStyle.Render(b.String())
}
