package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"sector-rotation/config"
	"sector-rotation/internal/dashboard"
	"sector-rotation/internal/signal"
	"sector-rotation/pkg/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	strongStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	weakStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	legendStyle  = lipgloss.NewStyle().Faint(true)
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Renderer writes a color-coded dashboard table for a snapshot. It is a pure
// consumer: it only reads the snapshot value it is handed.
type Renderer struct {
	out           io.Writer
	benchmarkName string
	strong        decimal.Decimal
	weak          decimal.Decimal
}

func NewRenderer(out io.Writer, cfg *config.Config) *Renderer {
	return &Renderer{
		out:           out,
		benchmarkName: cfg.Benchmark.Symbol,
		strong:        decimal.NewFromFloat(cfg.Signal.StrongThreshold),
		weak:          decimal.NewFromFloat(cfg.Signal.WeakThreshold),
	}
}

func (r *Renderer) Present(snapshot *dashboard.Snapshot) {
	fmt.Fprint(r.out, r.Render(snapshot))
}

// Render produces the full dashboard text for one snapshot: benchmark header,
// the sector table sorted by relative strength (unknowns last), and a legend.
func (r *Renderer) Render(snapshot *dashboard.Snapshot) string {
	if snapshot == nil {
		return ""
	}

	var b strings.Builder
	rule := ruleStyle.Render(strings.Repeat("─", 88))

	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("SECTOR ROTATION DASHBOARD - %s",
		snapshot.Taken.Format("2006-01-02 15:04:05"))))
	b.WriteString("\n")

	if snapshot.Benchmark != nil {
		b.WriteString(fmt.Sprintf("%s: %s (%s daily change)\n",
			r.benchmarkName,
			snapshot.Benchmark.Price.StringFixed(2),
			utils.FormatPercentage(snapshot.Benchmark.DailyChangePct)))
	} else {
		b.WriteString(unknownStyle.Render(fmt.Sprintf("%s: no data this cycle, signals are UNKNOWN", r.benchmarkName)))
		b.WriteString("\n")
	}

	b.WriteString(rule)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%-18s %-12s %-12s %-10s %-14s %s\n",
		"Sector", "Symbol", "Price", "Daily %", "Rel Strength", "Signal"))
	b.WriteString(rule)
	b.WriteString("\n")

	for _, entry := range sortByRelStrength(snapshot.Entries) {
		b.WriteString(r.renderRow(entry))
	}

	b.WriteString(rule)
	b.WriteString("\n")
	b.WriteString(legendStyle.Render(fmt.Sprintf(
		"Legend: STRONG (RS ≥ %s) | NEUTRAL | WEAK (RS ≤ %s) | UNKNOWN (no data)",
		utils.FormatPercentage(r.strong), utils.FormatPercentage(r.weak))))
	b.WriteString("\n")

	return b.String()
}

func (r *Renderer) renderRow(entry dashboard.Entry) string {
	price := "-"
	dailyChange := "-"
	if entry.Quote != nil {
		price = entry.Quote.Price.StringFixed(2)
		dailyChange = utils.FormatPercentage(entry.Quote.DailyChangePct)
	}

	relStrength := "-"
	if entry.Signal != signal.Unknown {
		relStrength = utils.FormatPercentage(entry.RelStrength)
	}

	return fmt.Sprintf("%-18s %-12s %-12s %-10s %-14s %s\n",
		entry.Sector.Name,
		entry.Sector.Symbol,
		price,
		dailyChange,
		relStrength,
		styleFor(entry.Signal).Render(entry.Signal.String()))
}

func styleFor(s signal.Signal) lipgloss.Style {
	switch s {
	case signal.Strong:
		return strongStyle
	case signal.Neutral:
		return neutralStyle
	case signal.Weak:
		return weakStyle
	default:
		return unknownStyle
	}
}

// sortByRelStrength orders entries best first; rows without a signal go last
// in their configured order.
func sortByRelStrength(entries []dashboard.Entry) []dashboard.Entry {
	sorted := make([]dashboard.Entry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		if (sorted[i].Signal == signal.Unknown) != (sorted[j].Signal == signal.Unknown) {
			return sorted[j].Signal == signal.Unknown
		}
		if sorted[i].Signal == signal.Unknown {
			return false
		}
		return sorted[i].RelStrength.GreaterThan(sorted[j].RelStrength)
	})
	return sorted
}
