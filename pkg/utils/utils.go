package utils

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shopspring/decimal"

	"sector-rotation/pkg/logger"
)

func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		pc, _, _, ok := runtime.Caller(1)
		funcName := "unknown"
		if ok {
			fn := runtime.FuncForPC(pc)
			if fn != nil {
				parts := strings.Split(fn.Name(), "/")
				funcName = parts[len(parts)-1]
			}
		}

		log.Warn("Context cancelled",
			logger.StringField("caller", funcName),
		)
		return false
	default:
		return true
	}
}

// FormatPercentage renders a percent-point value with an explicit sign, e.g. "+1.85%".
func FormatPercentage(value decimal.Decimal) string {
	fixed := value.StringFixed(2)
	if value.Sign() >= 0 {
		fixed = "+" + fixed
	}
	return fmt.Sprintf("%s%%", fixed)
}
