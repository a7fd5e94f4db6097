package signal

import (
	"github.com/shopspring/decimal"

	"sector-rotation/internal/dto"
)

// Signal classifies a sector's relative performance versus the benchmark.
// Weak, Neutral and Strong form an ordinal scale; Unknown means the inputs
// for this cycle were missing and is deliberately distinct from Neutral so
// data-quality failures stay visible.
type Signal int

const (
	Unknown Signal = iota
	Weak
	Neutral
	Strong
)

func (s Signal) String() string {
	switch s {
	case Strong:
		return "STRONG"
	case Neutral:
		return "NEUTRAL"
	case Weak:
		return "WEAK"
	default:
		return "UNKNOWN"
	}
}

// Thresholds are the relative-strength boundaries in percent points.
// Strong must be above Weak; config validation enforces this.
type Thresholds struct {
	Strong decimal.Decimal
	Weak   decimal.Decimal
}

// NewThresholds builds Thresholds from the configured float boundaries.
func NewThresholds(strong, weak float64) Thresholds {
	return Thresholds{
		Strong: decimal.NewFromFloat(strong),
		Weak:   decimal.NewFromFloat(weak),
	}
}

// RelativeStrength is the sector's daily change differential versus the
// benchmark. The second return reports whether both quotes were present.
func RelativeStrength(quote, benchmark *dto.Quote) (decimal.Decimal, bool) {
	if quote == nil || benchmark == nil {
		return decimal.Zero, false
	}
	return quote.DailyChangePct.Sub(benchmark.DailyChangePct), true
}

// Compute classifies a sector quote against the benchmark. It is pure and
// total: a missing quote or benchmark yields Unknown, never a silent Neutral.
func Compute(quote, benchmark *dto.Quote, th Thresholds) Signal {
	rel, ok := RelativeStrength(quote, benchmark)
	if !ok {
		return Unknown
	}

	switch {
	case rel.GreaterThanOrEqual(th.Strong):
		return Strong
	case rel.LessThanOrEqual(th.Weak):
		return Weak
	default:
		return Neutral
	}
}
