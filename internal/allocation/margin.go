package allocation

import (
	"strings"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// AdjustedValue applies an adjustment margin to a base amount.
//
// The margin is a free-form specifier coming from the assets
// configuration:
//   - empty: the base amount is returned unchanged
//   - contains "%": the numeric part is a percentage, the result is
//     base × (1 + x/100); x may be negative
//   - otherwise: the margin is a flat delta, the result is base + x
//
// An unparsable margin is treated as empty. This leniency is inherited
// from the surrounding system, where margins are entered in a form field
// and a typo must not block saving the configuration.
func AdjustedValue(base decimal.Decimal, margin string) decimal.Decimal {
	margin = strings.TrimSpace(margin)
	if margin == "" {
		return base
	}

	if strings.Contains(margin, "%") {
		percent, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(margin, "%", "")))
		if err != nil {
			return base
		}

		return base.Mul(decimal.NewFromInt(1).Add(percent.Div(oneHundred)))
	}

	delta, err := decimal.NewFromString(margin)
	if err != nil {
		return base
	}

	return base.Add(delta)
}
