package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sector-rotation/config"
	"sector-rotation/internal/dashboard"
	"sector-rotation/internal/dto"
	"sector-rotation/internal/signal"
)

func testRendererConfig() *config.Config {
	return &config.Config{
		Signal:    config.SignalConfig{StrongThreshold: 1.0, WeakThreshold: -1.0},
		Benchmark: config.Benchmark{Name: "S&P 500", Symbol: "US500"},
	}
}

func entry(name, symbol string, changePct, relPct float64, sig signal.Signal) dashboard.Entry {
	return dashboard.Entry{
		Sector: dashboard.Sector{Name: name, Symbol: symbol, Category: dashboard.CategoryGrowth},
		Quote: &dto.Quote{
			Symbol:         symbol,
			Price:          decimal.NewFromFloat(55.25),
			DailyChangePct: decimal.NewFromFloat(changePct),
		},
		Signal:      sig,
		RelStrength: decimal.NewFromFloat(relPct),
	}
}

func testSnapshot() *dashboard.Snapshot {
	return &dashboard.Snapshot{
		Entries: []dashboard.Entry{
			entry("Utilities", "XLU.NYSE", -0.80, -1.30, signal.Weak),
			entry("Financials", "XLF.NYSE", 2.35, 1.85, signal.Strong),
			entry("Energy", "XLE.NYSE", 0.75, 0.25, signal.Neutral),
		},
		Benchmark: &dto.Quote{
			Symbol:         "US500",
			Price:          decimal.NewFromFloat(5431.50),
			DailyChangePct: decimal.NewFromFloat(0.50),
		},
		Taken: time.Date(2025, 6, 13, 15, 35, 0, 0, time.UTC),
	}
}

func TestRenderSortsByRelativeStrength(t *testing.T) {
	renderer := NewRenderer(&bytes.Buffer{}, testRendererConfig())
	out := renderer.Render(testSnapshot())

	finPos := strings.Index(out, "XLF.NYSE")
	enePos := strings.Index(out, "XLE.NYSE")
	utiPos := strings.Index(out, "XLU.NYSE")
	require.NotEqual(t, -1, finPos)
	require.NotEqual(t, -1, enePos)
	require.NotEqual(t, -1, utiPos)

	assert.Less(t, finPos, enePos, "strongest sector renders first")
	assert.Less(t, enePos, utiPos, "weakest sector renders last")
}

func TestRenderContent(t *testing.T) {
	renderer := NewRenderer(&bytes.Buffer{}, testRendererConfig())
	out := renderer.Render(testSnapshot())

	assert.Contains(t, out, "SECTOR ROTATION DASHBOARD")
	assert.Contains(t, out, "2025-06-13 15:35:00")
	assert.Contains(t, out, "US500: 5431.50 (+0.50% daily change)")
	assert.Contains(t, out, "STRONG")
	assert.Contains(t, out, "+1.85%")
	assert.Contains(t, out, "-1.30%")
	assert.Contains(t, out, "Legend:")
}

func TestRenderUnknownRowsLast(t *testing.T) {
	snapshot := testSnapshot()
	stale := dashboard.Entry{
		Sector: dashboard.Sector{Name: "Healthcare", Symbol: "XLV.NYSE", Category: dashboard.CategoryDefensive},
		Signal: signal.Unknown,
	}
	snapshot.Entries = append([]dashboard.Entry{stale}, snapshot.Entries...)

	out := NewRenderer(&bytes.Buffer{}, testRendererConfig()).Render(snapshot)

	unknownPos := strings.Index(out, "XLV.NYSE")
	utiPos := strings.Index(out, "XLU.NYSE")
	require.NotEqual(t, -1, unknownPos)
	assert.Greater(t, unknownPos, utiPos, "unknown rows render after classified rows")

	// missing quote renders placeholders, not zeros
	line := ""
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "XLV.NYSE") {
			line = l
			break
		}
	}
	assert.Contains(t, line, "-")
	assert.Contains(t, line, "UNKNOWN")
}

func TestRenderMissingBenchmark(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Benchmark = nil
	for i := range snapshot.Entries {
		snapshot.Entries[i].Signal = signal.Unknown
	}

	out := NewRenderer(&bytes.Buffer{}, testRendererConfig()).Render(snapshot)
	assert.Contains(t, out, "no data this cycle")
}

func TestPresentWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewRenderer(&buf, testRendererConfig())

	renderer.Present(testSnapshot())
	assert.NotEmpty(t, buf.String())

	renderer.Present(nil)
}
