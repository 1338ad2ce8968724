package types

import "github.com/google/uuid"

// OrderItem is one submitted order line.
type OrderItem struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	UnitPrice float64   `json:"price" validate:"gte=0"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

// OrderPayload is the full snapshot posted to the cafe backend. The server
// recomputes and persists authoritative totals from it.
type OrderPayload struct {
	CustomerName       string      `json:"customerName" validate:"required"`
	CustomerPhone      string      `json:"customerPhone"`
	Items              []OrderItem `json:"items" validate:"required,min=1,dive"`
	TipAmount          float64     `json:"tipAmount" validate:"gte=0"`
	PointsRedeemed     int         `json:"pointsRedeemed" validate:"gte=0"`
	SplitPayment       bool        `json:"splitPayment"`
	SplitPaymentMethod string      `json:"splitPaymentMethod" validate:"required_if=SplitPayment true"`
	SplitAmount        float64     `json:"splitAmount" validate:"gte=0"`
	ExtraCharge        float64     `json:"extraCharge" validate:"gte=0"`
	ExtraChargeNote    string      `json:"extraChargeNote"`
	PaymentMethod      string      `json:"paymentMethod" validate:"required"`
	PickupOption       string      `json:"pickupOption" validate:"required"`
}

// OrderReceipt is the authoritative creation response.
type OrderReceipt struct {
	OrderNumber   string `json:"orderNumber"`
	InvoiceNumber string `json:"invoiceNumber"`
}
