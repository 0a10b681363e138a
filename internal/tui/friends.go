package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/selection"
)

type friendsLoadedMsg struct {
	usernames []string
	err       error
}

// friendsClosedMsg carries the saved selection back to home.
type friendsClosedMsg struct {
	selected []models.Friend
}

// friendItem adapts a friend row to bubbles/list.Item.
type friendItem struct {
	Username string
	Selected bool
}

func (i friendItem) Title() string       { return i.Username }
func (i friendItem) Description() string { return "" }
func (i friendItem) FilterValue() string { return i.Username }

// friendDelegate renders one checkbox row per friend.
type friendDelegate struct{}

func (d friendDelegate) Height() int                               { return 1 }
func (d friendDelegate) Spacing() int                              { return 0 }
func (d friendDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d friendDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(friendItem)
	box := mutedStyle.Render(boxUnchecked)
	if it.Selected {
		box = successStyle.Render(boxChecked)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, it.Username)
}

// friendsModal fetches the friends list and lets the user pick who is splitting.
type friendsModal struct {
	ctx context.Context
	api API

	loading bool
	sel     *selection.List
	list    list.Model
}

// newFriendsModal opens the picker with the usernames in selected already ticked.
func newFriendsModal(ctx context.Context, api API, selected []string) friendsModal {
	sel := selection.New(selected)
	sel.Select(selected)

	l := list.New(nil, friendDelegate{}, 40, 12)
	l.Title = "Select Friends"
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	saveBind := key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "save"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{toggleBind, saveBind} }

	return friendsModal{
		ctx:     ctx,
		api:     api,
		loading: true,
		sel:     sel,
		list:    l,
	}
}

// Init fetches the friends list.
func (m friendsModal) Init() tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		usernames, err := api.FriendsList(ctx)
		return friendsLoadedMsg{usernames: usernames, err: err}
	}
}

func (m friendsModal) Update(msg tea.Msg) (friendsModal, tea.Cmd) {
	switch msg := msg.(type) {
	case friendsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			slog.Error("Error fetching friends list", "error", msg.err)
			m.sel.Replace(nil)
		} else {
			m.sel.Replace(msg.usernames)
		}
		return m, m.list.SetItems(m.rows())

	case tea.WindowSizeMsg:
		m.list.SetSize(max(min(msg.Width-4, 60), 10), max(min(msg.Height-6, 20), 3))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			if m.loading {
				return m, nil
			}
			it, ok := m.list.SelectedItem().(friendItem)
			if !ok {
				return m, nil
			}
			m.sel.Toggle(it.Username)
			it.Selected = m.sel.IsSelected(it.Username)
			return m, m.list.SetItem(m.list.Index(), it)
		case "enter", "esc":
			selected := m.sel.Selected()
			return m, func() tea.Msg { return friendsClosedMsg{selected: selected} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m friendsModal) rows() []list.Item {
	friends := m.sel.Friends()
	rows := make([]list.Item, len(friends))
	for i, f := range friends {
		rows[i] = friendItem{Username: f.Username, Selected: f.IsSelected}
	}
	return rows
}

func (m friendsModal) View() string {
	if m.loading {
		return modalStyle.Render(titleStyle.Render("Select Friends") + "\n\n" + mutedStyle.Render("Loading Friends..."))
	}
	if m.sel.Len() == 0 {
		var b strings.Builder
		b.WriteString(titleStyle.Render("Select Friends"))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("No friends found."))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter close"))
		return modalStyle.Render(b.String())
	}
	return modalStyle.Render(m.list.View())
}
