// Package charts renders split breakdowns as images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/mmynk/billsplit/internal/display"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no amounts to chart")

// Share is one slice of the pie.
type Share struct {
	Username string
	Amount   float64
}

// RenderSplitPie writes a PNG pie chart of who owes what. Slices are ordered by
// amount, largest first; zero amounts are dropped.
func RenderSplitPie(w io.Writer, shares []Share) error {
	sorted := make([]Share, 0, len(shares))
	for _, s := range shares {
		if s.Amount > 0 {
			sorted = append(sorted, s)
		}
	}
	if len(sorted) == 0 {
		return ErrNoData
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })

	values := make([]chart.Value, len(sorted))
	for i, s := range sorted {
		values[i] = chart.Value{
			Value: s.Amount,
			Label: fmt.Sprintf("%s $%s", s.Username, display.FormatAmount(s.Amount)),
		}
	}

	pie := chart.PieChart{
		Title:  "Who owes what",
		Width:  600,
		Height: 600,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		Values: values,
	}

	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
