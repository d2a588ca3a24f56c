package statements

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders statement amounts as localized currency strings for
// callers that present statements directly (CLI, exports).
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a Formatter for the given locale tag.
func NewFormatter(tag language.Tag, symbol string) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// DefaultFormatter formats amounts as Korean won.
func DefaultFormatter() *Formatter {
	return NewFormatter(language.Korean, "₩")
}

// Amount renders a decimal with thousands grouping and currency symbol.
// Statement amounts are whole currency units after rounding to 2 places.
func (f *Formatter) Amount(d decimal.Decimal) string {
	rounded := d.Round(2)
	if rounded.IsInteger() {
		return f.symbol + f.printer.Sprintf("%d", rounded.IntPart())
	}
	value, _ := rounded.Float64()
	return f.symbol + f.printer.Sprintf("%.2f", value)
}

// TrialBalanceRowView is a display-ready trial balance row.
type TrialBalanceRowView struct {
	Code    string
	Name    string
	Debit   string
	Credit  string
	Balance string
}

// TrialBalanceView renders every row of a trial balance.
func (f *Formatter) TrialBalanceView(tb TrialBalance) []TrialBalanceRowView {
	views := make([]TrialBalanceRowView, 0, len(tb.Rows))
	for _, row := range tb.Rows {
		views = append(views, TrialBalanceRowView{
			Code:    row.Code,
			Name:    row.Name,
			Debit:   f.Amount(row.Debit),
			Credit:  f.Amount(row.Credit),
			Balance: f.Amount(row.Balance),
		})
	}
	return views
}
