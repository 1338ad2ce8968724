package types

// TaxQuote is the server's authoritative tax for a given pre-tax amount.
// Treated as opaque until returned; the terminal never derives its own rate.
type TaxQuote struct {
	Rate   float64 `json:"taxRate"`
	Name   string  `json:"taxName"`
	Amount float64 `json:"taxAmount"`
}

// ZeroTaxQuote is the fail-open fallback used when the cart is empty or the
// tax service is unreachable.
func ZeroTaxQuote() TaxQuote {
	return TaxQuote{}
}

// IsZero reports whether the quote carries no tax.
func (t TaxQuote) IsZero() bool {
	return t.Rate == 0 && t.Amount == 0 && t.Name == ""
}
