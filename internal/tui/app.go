// Package tui is the terminal front end: photo preview, splitter, home with the
// friends picker, and review.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/billsplit/internal/client"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/route"
)

// API is the part of the server the screens talk to. *client.Client implements it.
type API interface {
	ParseReceipt(ctx context.Context, filename string, image io.Reader) (*client.ParsedReceipt, error)
	FriendsList(ctx context.Context) ([]string, error)
	AssignItems(ctx context.Context, receiptID string, items []models.Item, friends []string) ([]models.AssignedItem, error)
	RequestPayments(ctx context.Context, receiptID string, assigned []models.AssignedItem) ([]models.PaymentResult, error)
}

var _ API = (*client.Client)(nil)

// screen is one entry on the navigation stack.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
}

// navigateMsg pushes a new screen.
type navigateMsg struct {
	route route.Route
}

// backMsg pops the current screen. Popping the last one quits.
type backMsg struct{}

func navigate(r route.Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: r} }
}

func back() tea.Msg { return backMsg{} }

// App owns the navigation stack.
type App struct {
	ctx   context.Context
	api   API
	stack []screen

	width, height int
}

// New starts the app on the photo preview screen.
func New(ctx context.Context, api API) App {
	return App{
		ctx:   ctx,
		api:   api,
		stack: []screen{newPreview(ctx, api)},
	}
}

// Run shows the app until the user quits.
func Run(ctx context.Context, api API, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, api), opts...).Run()
	return err
}

func (a App) Init() tea.Cmd {
	return a.top().Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case navigateMsg:
		next, err := a.screenFor(msg.route)
		if err != nil {
			slog.Error("Failed to open screen", "path", msg.route.Path, "error", err)
			return a, nil
		}
		slog.Debug("Navigate", "path", msg.route.Path)
		a.stack = append(a.stack, next)
		cmds := []tea.Cmd{next.Init()}
		if a.width > 0 {
			size := tea.WindowSizeMsg{Width: a.width, Height: a.height}
			cmds = append(cmds, func() tea.Msg { return size })
		}
		return a, tea.Batch(cmds...)
	case backMsg:
		if len(a.stack) == 1 {
			return a, tea.Quit
		}
		a.stack = a.stack[:len(a.stack)-1]
		return a, nil
	}

	top, cmd := a.top().Update(msg)
	a.stack[len(a.stack)-1] = top
	return a, cmd
}

func (a App) View() string {
	return a.top().View()
}

func (a App) top() screen {
	return a.stack[len(a.stack)-1]
}

func (a App) screenFor(r route.Route) (screen, error) {
	switch r.Path {
	case route.Preview:
		return newPreview(a.ctx, a.api), nil
	case route.Splitter:
		return newSplitter(r)
	case route.Home:
		return newHome(a.ctx, a.api, r)
	case route.Review:
		return newReview(a.ctx, a.api, r)
	default:
		return nil, fmt.Errorf("unknown route %q", r.Path)
	}
}
