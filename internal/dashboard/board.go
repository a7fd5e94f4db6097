package dashboard

import (
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"sector-rotation/config"
	"sector-rotation/internal/dto"
	"sector-rotation/internal/signal"
)

type Category string

const (
	CategoryGrowth    Category = "growth"
	CategoryDefensive Category = "defensive"
)

// Sector is a tracked market segment. Loaded once from configuration and
// immutable during a run.
type Sector struct {
	Name     string
	Symbol   string
	Category Category
}

// Entry is one sector's state within a snapshot. Quote is nil when the quote
// source had no data for the symbol this cycle, in which case Signal is
// Unknown and RelStrength is meaningless.
type Entry struct {
	Sector      Sector
	Quote       *dto.Quote
	Signal      signal.Signal
	RelStrength decimal.Decimal
}

// Snapshot is one cycle's fully-formed dashboard state. It is an immutable
// value: the board replaces the whole snapshot each cycle, so a reader always
// observes an internally consistent cycle. Entries keep configuration order
// and contain every tracked sector exactly once.
type Snapshot struct {
	Entries   []Entry
	Benchmark *dto.Quote
	Taken     time.Time
}

// Board owns the current snapshot. Single writer (the watch loop), any number
// of readers through Latest.
type Board struct {
	sectors    []Sector
	thresholds signal.Thresholds
	current    atomic.Pointer[Snapshot]
}

func NewBoard(sectors []config.SectorConfig, thresholds signal.Thresholds) *Board {
	tracked := make([]Sector, 0, len(sectors))
	for _, s := range sectors {
		tracked = append(tracked, Sector{
			Name:     s.Name,
			Symbol:   s.Symbol,
			Category: Category(s.Category),
		})
	}
	return &Board{sectors: tracked, thresholds: thresholds}
}

// NewBoardFromConfig builds the board straight from the loaded configuration.
func NewBoardFromConfig(cfg *config.Config) *Board {
	return NewBoard(cfg.Sectors, signal.NewThresholds(cfg.Signal.StrongThreshold, cfg.Signal.WeakThreshold))
}

// Sectors returns the tracked sectors in configuration order.
func (b *Board) Sectors() []Sector {
	return b.sectors
}

// Update assembles a snapshot from one cycle's quotes and publishes it
// atomically. A sector absent from cycleQuotes degrades to Unknown; a nil
// benchmark degrades every signal to Unknown. The snapshot still lists every
// tracked sector either way.
func (b *Board) Update(cycleQuotes map[string]*dto.Quote, benchmark *dto.Quote, now time.Time) *Snapshot {
	entries := make([]Entry, 0, len(b.sectors))
	for _, sector := range b.sectors {
		quote := cycleQuotes[sector.Symbol]
		entry := Entry{
			Sector: sector,
			Quote:  quote,
			Signal: signal.Compute(quote, benchmark, b.thresholds),
		}
		if rel, ok := signal.RelativeStrength(quote, benchmark); ok {
			entry.RelStrength = rel
		}
		entries = append(entries, entry)
	}

	snapshot := &Snapshot{
		Entries:   entries,
		Benchmark: benchmark,
		Taken:     now,
	}
	b.current.Store(snapshot)
	return snapshot
}

// Latest returns the most recently published snapshot, or nil before the
// first cycle completes.
func (b *Board) Latest() *Snapshot {
	return b.current.Load()
}
