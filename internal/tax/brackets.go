package tax

import "github.com/shopspring/decimal"

// BracketTax evaluates a progressive ladder: each slice of income between
// consecutive bracket floors is taxed at that bracket's marginal rate, and
// the slices sum. Never a flat "top rate times whole income" shortcut.
func BracketTax(income decimal.Decimal, brackets []Bracket) decimal.Decimal {
	if income.Sign() <= 0 || len(brackets) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for i, b := range brackets {
		if b.Floor.GreaterThanOrEqual(income) {
			break
		}
		ceiling := income
		if i+1 < len(brackets) && brackets[i+1].Floor.LessThan(income) {
			ceiling = brackets[i+1].Floor
		}
		total = total.Add(ceiling.Sub(b.Floor).Mul(b.Rate))
	}
	return total
}

// CumulativeAtFloor returns the closed-form tax accrued below the floor of
// bracket idx: the sum of each full lower bracket times its rate. Used to
// cross-check ladder evaluation at bracket boundaries.
func CumulativeAtFloor(idx int, brackets []Bracket) decimal.Decimal {
	total := decimal.Zero
	for i := 0; i < idx && i < len(brackets); i++ {
		ceiling := brackets[len(brackets)-1].Floor
		if i+1 < len(brackets) {
			ceiling = brackets[i+1].Floor
		}
		total = total.Add(ceiling.Sub(brackets[i].Floor).Mul(brackets[i].Rate))
	}
	return total
}
