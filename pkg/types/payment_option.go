package types

// PaymentOption is a tender type advertised by the cafe backend.
type PaymentOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// FallbackPaymentOptions is served when the backend set is unavailable.
func FallbackPaymentOptions() []PaymentOption {
	return []PaymentOption{
		{Code: "cash", Name: "Cash", Icon: "cash"},
		{Code: "upi", Name: "UPI", Icon: "upi"},
	}
}
