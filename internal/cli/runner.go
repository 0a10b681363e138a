// Package cli dispatches the billsplit client subcommands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/client"
	"github.com/mmynk/billsplit/internal/display"
	"github.com/mmynk/billsplit/internal/tui"
	"github.com/mmynk/billsplit/pkg/logging"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Options carry settings from config and root flags.
type Options struct {
	APIURL  string
	Token   string
	LogFile string

	In       io.Reader
	Out, Err io.Writer
}

type runner struct {
	opt Options
	api *client.Client
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.In == nil {
		opt.In = os.Stdin
	}
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	if opt.Err == nil {
		opt.Err = os.Stderr
	}
	r := &runner{
		opt: opt,
		api: client.New(opt.APIURL, client.WithToken(opt.Token)),
	}

	cmd, a := "tui", []string(nil)
	if len(args) > 0 {
		cmd, a = args[0], args[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		r.printHelp()
		return 0

	case "tui":
		return r.doTUI(ctx)

	case "ping":
		return r.doPing(ctx)

	case "parse":
		if len(a) != 1 {
			r.fail("usage: billsplit parse <photo>")
			return 2
		}
		return r.doParse(ctx, a[0])

	case "friends":
		return r.doFriends(ctx)

	case "history":
		limit := 10
		if len(a) > 0 {
			n, err := strconv.Atoi(a[0])
			if err != nil || n < 0 {
				r.fail("history: not a valid limit: " + a[0])
				return 2
			}
			limit = n
		}
		return r.doHistory(ctx, limit)

	case "split":
		if len(a) < 1 || len(a) > 2 {
			r.fail("usage: billsplit split <receipt-id> [total]")
			return 2
		}
		var total float64
		if len(a) == 2 {
			t, err := strconv.ParseFloat(a[1], 64)
			if err != nil {
				r.fail("split: not a number: " + a[1])
				return 2
			}
			total = t
		}
		return r.doSplit(ctx, a[0], total)

	case "login":
		device := "billsplit-cli"
		if len(a) > 0 {
			device = a[0]
		}
		return r.doLogin(ctx, device)

	case "hash-password":
		return r.doHashPassword()
	}

	r.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.opt.Err)
	r.printHelp()
	return 2
}

func (r *runner) printHelp() {
	fmt.Fprintf(r.opt.Out, `billsplit - split a receipt with friends

Usage:
  billsplit [flags] <subcommand> [args]

Subcommands:
  tui                        Interactive flow (default)
  ping                       Check the server is reachable
  parse <photo>              Upload a receipt photo and list its items
  friends                    List friends from the payments account
  history [limit]            List recent receipts (default 10, 0 for all)
  split <receipt-id> [total] Show what each friend owes on a stored receipt
  login [device]             Read the server password from stdin and print a token
  hash-password              Read a password from stdin and print its bcrypt hash

Environment:
  BILLSPLIT_API_URL, BILLSPLIT_TOKEN, BILLSPLIT_LOG_FILE, LOG_LEVEL
`)
}

func (r *runner) ok(msg string) {
	fmt.Fprintln(r.opt.Out, successStyle.Render("✔ "+msg))
}

func (r *runner) fail(msg string) {
	fmt.Fprintln(r.opt.Err, errorStyle.Render("✖ "+msg))
}

// -------------- subcommand impls ----------------

func (r *runner) doTUI(ctx context.Context) int {
	closer, err := logging.SetupFile(r.opt.LogFile)
	if err != nil {
		r.fail(err.Error())
		return 1
	}
	defer closer.Close()

	if err := tui.Run(ctx, r.api); err != nil {
		r.fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (r *runner) doPing(ctx context.Context) int {
	if err := r.api.Ping(ctx); err != nil {
		r.fail(err.Error())
		return 1
	}
	r.ok("server reachable at " + r.api.BaseURL())
	return 0
}

func (r *runner) doParse(ctx context.Context, path string) int {
	f, err := os.Open(path)
	if err != nil {
		r.fail("parse: " + err.Error())
		return 1
	}
	defer f.Close()

	parsed, err := r.api.ParseReceipt(ctx, filepath.Base(path), f)
	if err != nil {
		r.fail("parse: " + err.Error())
		return 1
	}

	fmt.Fprintln(r.opt.Out, titleStyle.Render("Receipt "+parsed.ReceiptID))
	for _, it := range parsed.Items {
		fmt.Fprintln(r.opt.Out, "  "+display.FormatItem(it))
	}
	return 0
}

func (r *runner) doFriends(ctx context.Context) int {
	friends, err := r.api.FriendsList(ctx)
	if err != nil {
		r.fail("friends: " + err.Error())
		return 1
	}
	if len(friends) == 0 {
		fmt.Fprintln(r.opt.Out, mutedStyle.Render("no friends"))
	}
	for _, f := range friends {
		fmt.Fprintln(r.opt.Out, f)
	}
	return 0
}

func (r *runner) doHistory(ctx context.Context, limit int) int {
	receipts, err := r.api.NewHistory().Receipts(ctx, limit)
	if err != nil {
		r.fail("history: " + err.Error())
		return 1
	}
	if len(receipts) == 0 {
		fmt.Fprintln(r.opt.Out, mutedStyle.Render("no receipts yet"))
		return 0
	}
	for _, rc := range receipts {
		fmt.Fprintf(r.opt.Out, "%s  %s  %d items  $%s\n",
			rc.ID, rc.Filename, rc.ItemCount, display.FormatAmount(rc.Total))
	}
	return 0
}

func (r *runner) doSplit(ctx context.Context, receiptID string, total float64) int {
	split, err := r.api.NewHistory().Split(ctx, receiptID, total)
	if err != nil {
		r.fail("split: " + err.Error())
		return 1
	}

	names := make([]string, 0, len(split.Splits))
	for name := range split.Splits {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(r.opt.Out, "%s  subtotal $%s  tax $%s\n",
		titleStyle.Render("Split"), display.FormatAmount(split.Subtotal), display.FormatAmount(split.TaxAmount))
	for _, name := range names {
		s := split.Splits[name]
		fmt.Fprintf(r.opt.Out, "%s: $%s\n", name, display.FormatAmount(s.Total))
		for _, it := range s.Items {
			fmt.Fprintln(r.opt.Out, "    "+mutedStyle.Render(display.FormatItem(it)))
		}
	}
	return 0
}

func (r *runner) doLogin(ctx context.Context, device string) int {
	password, err := readLine(r.opt.In)
	if err != nil {
		r.fail("login: " + err.Error())
		return 1
	}
	token, err := r.api.Login(ctx, password, device)
	if err != nil {
		r.fail("login: " + err.Error())
		return 1
	}
	fmt.Fprintln(r.opt.Out, token)
	return 0
}

func (r *runner) doHashPassword() int {
	password, err := readLine(r.opt.In)
	if err != nil {
		r.fail("hash-password: " + err.Error())
		return 1
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		r.fail("hash-password: " + err.Error())
		return 1
	}
	fmt.Fprintln(r.opt.Out, hash)
	return 0
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no input")
	}
	return line, nil
}
