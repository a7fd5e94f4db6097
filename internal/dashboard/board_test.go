package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sector-rotation/config"
	"sector-rotation/internal/dto"
	"sector-rotation/internal/signal"
)

var testSectors = []config.SectorConfig{
	{Name: "Financials", Symbol: "XLF.NYSE", Category: "growth"},
	{Name: "Energy", Symbol: "XLE.NYSE", Category: "growth"},
	{Name: "Utilities", Symbol: "XLU.NYSE", Category: "defensive"},
}

func testQuote(symbol string, changePct float64) *dto.Quote {
	return &dto.Quote{
		Symbol:         symbol,
		Price:          decimal.NewFromFloat(42.50),
		DailyChangePct: decimal.NewFromFloat(changePct),
		Timestamp:      time.Date(2025, 6, 13, 15, 30, 0, 0, time.UTC),
	}
}

func TestBoardUpdateFullCycle(t *testing.T) {
	board := NewBoard(testSectors, signal.NewThresholds(1.0, -1.0))
	now := time.Date(2025, 6, 13, 15, 35, 0, 0, time.UTC)

	quotes := map[string]*dto.Quote{
		"XLF.NYSE": testQuote("XLF.NYSE", 2.35),
		"XLE.NYSE": testQuote("XLE.NYSE", 0.75),
		"XLU.NYSE": testQuote("XLU.NYSE", -0.80),
	}
	benchmark := testQuote("US500", 0.50)

	snapshot := board.Update(quotes, benchmark, now)
	require.NotNil(t, snapshot)
	require.Len(t, snapshot.Entries, len(testSectors))
	assert.Equal(t, now, snapshot.Taken)
	assert.Equal(t, benchmark, snapshot.Benchmark)

	// Configuration order is preserved and every sector appears exactly once.
	for i, sector := range testSectors {
		assert.Equal(t, sector.Symbol, snapshot.Entries[i].Sector.Symbol)
	}

	assert.Equal(t, signal.Strong, snapshot.Entries[0].Signal)
	assert.True(t, snapshot.Entries[0].RelStrength.Equal(decimal.NewFromFloat(1.85)))
	assert.Equal(t, signal.Neutral, snapshot.Entries[1].Signal)
	assert.Equal(t, signal.Weak, snapshot.Entries[2].Signal)
}

func TestBoardUpdateMissingSectorQuote(t *testing.T) {
	board := NewBoard(testSectors, signal.NewThresholds(1.0, -1.0))

	quotes := map[string]*dto.Quote{
		"XLF.NYSE": testQuote("XLF.NYSE", 2.35),
		// XLE and XLU failed this cycle.
	}
	snapshot := board.Update(quotes, testQuote("US500", 0.50), time.Now())

	require.Len(t, snapshot.Entries, len(testSectors))
	assert.Equal(t, signal.Strong, snapshot.Entries[0].Signal)
	assert.Equal(t, signal.Unknown, snapshot.Entries[1].Signal)
	assert.Nil(t, snapshot.Entries[1].Quote)
	assert.Equal(t, signal.Unknown, snapshot.Entries[2].Signal)
}

func TestBoardUpdateMissingBenchmark(t *testing.T) {
	board := NewBoard(testSectors, signal.NewThresholds(1.0, -1.0))

	quotes := map[string]*dto.Quote{
		"XLF.NYSE": testQuote("XLF.NYSE", 2.35),
		"XLE.NYSE": testQuote("XLE.NYSE", 0.75),
		"XLU.NYSE": testQuote("XLU.NYSE", -0.80),
	}
	snapshot := board.Update(quotes, nil, time.Now())

	require.Len(t, snapshot.Entries, len(testSectors))
	for _, entry := range snapshot.Entries {
		assert.Equal(t, signal.Unknown, entry.Signal)
		assert.NotNil(t, entry.Quote, "quotes are kept even when signals degrade")
	}
	assert.Nil(t, snapshot.Benchmark)
}

func TestBoardLatestReplacedWholesale(t *testing.T) {
	board := NewBoard(testSectors, signal.NewThresholds(1.0, -1.0))
	assert.Nil(t, board.Latest())

	first := board.Update(nil, nil, time.Now())
	assert.Same(t, first, board.Latest())

	second := board.Update(map[string]*dto.Quote{
		"XLF.NYSE": testQuote("XLF.NYSE", 1.0),
	}, testQuote("US500", 0.0), time.Now())

	assert.Same(t, second, board.Latest())
	// The previous snapshot value is untouched by the new cycle.
	assert.Equal(t, signal.Unknown, first.Entries[0].Signal)
	assert.Equal(t, signal.Strong, second.Entries[0].Signal)
}
