// Package pricing derives the order total from the cart, the server tax
// quote, and the operator-entered adjustments. All recomputation is
// synchronous; the engine never caches a total across an await boundary.
package pricing

import (
	"context"
	"math"
	"strings"

	"github.com/chirayupatel9/palm-cafe-pos/internal/cart"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/enums"
	pkgerrors "github.com/chirayupatel9/palm-cafe-pos/pkg/errors"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/metrics"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/money"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/types"
)

// TaxQuoter returns the authoritative tax for a pre-tax amount.
type TaxQuoter interface {
	CalculateTax(ctx context.Context, subtotal float64) (types.TaxQuote, error)
}

// SplitPayment partitions the total into two payment legs. The remainder
// after Amount is implicitly owed to the primary method.
type SplitPayment struct {
	Enabled bool
	Method  enums.PaymentMethod
	Amount  float64
}

// State is the derived pricing snapshot for display. Amounts are rounded
// to two decimals here and nowhere earlier.
type State struct {
	Subtotal        float64
	Tax             types.TaxQuote
	TipPercent      float64
	TipAmount       float64
	PointsRedeemed  int
	RedemptionValue float64
	ExtraCharge     float64
	ExtraChargeNote string
	Split           SplitPayment
	Total           float64
}

// Params groups the engine dependencies.
type Params struct {
	Cart          *cart.Cart
	Quoter        TaxQuoter
	OperatorRole  enums.OperatorRole
	PointsPerUnit float64
	Tenant        string
	Logger        *logger.Logger
	Metrics       *metrics.EngineMetrics
}

// Engine recomputes pricing state after every mutation.
type Engine struct {
	cart          *cart.Cart
	quoter        TaxQuoter
	operatorRole  enums.OperatorRole
	pointsPerUnit float64
	tenant        string
	logg          *logger.Logger
	metrics       *metrics.EngineMetrics

	tax             types.TaxQuote
	tipPercent      float64
	tipAmount       float64
	tipByPercent    bool
	pointsToRedeem  int
	customer        *types.LoyaltyCustomer
	extraCharge     float64
	extraChargeNote string
	split           SplitPayment
}

// NewEngine builds a pricing engine bound to one cart.
func NewEngine(params Params) (*Engine, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart required")
	}
	if params.Quoter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tax quoter required")
	}
	if params.PointsPerUnit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "points per unit must be positive")
	}
	return &Engine{
		cart:          params.Cart,
		quoter:        params.Quoter,
		operatorRole:  params.OperatorRole,
		pointsPerUnit: params.PointsPerUnit,
		tenant:        params.Tenant,
		logg:          params.Logger,
		metrics:       params.Metrics,
	}, nil
}

// RecomputeTax refreshes the tax quote for the current subtotal. An empty
// cart gets the zero quote locally. A quoter failure falls back to zero
// tax so order entry is never blocked. A response whose subtotal no longer
// matches the live cart is discarded so a late reply cannot overwrite a
// fresher quote.
func (e *Engine) RecomputeTax(ctx context.Context) {
	subtotal := e.cart.Subtotal()
	if subtotal == 0 {
		e.tax = types.ZeroTaxQuote()
		return
	}

	quote, err := e.quoter.CalculateTax(ctx, subtotal)
	if err != nil {
		if e.logg != nil {
			e.logg.Warn(ctx, "tax quote failed, falling back to zero tax")
		}
		e.metrics.IncTaxQuoteFailure(e.tenant)
		e.tax = types.ZeroTaxQuote()
		return
	}
	if e.cart.Subtotal() != subtotal {
		// Stale response for a subtotal the operator already moved past.
		return
	}
	e.tax = quote
}

// Tax returns the current quote.
func (e *Engine) Tax() types.TaxQuote {
	return e.tax
}

// SetTipPercent sets the tip as a percentage of the subtotal. The stored
// percentage keeps the preset highlighted and the amount tracks subtotal
// changes.
func (e *Engine) SetTipPercent(pct float64) {
	pct = money.ToNumber(pct)
	if pct < 0 {
		pct = 0
	}
	e.tipPercent = pct
	e.tipByPercent = true
	e.tipAmount = e.cart.Subtotal() * pct / 100
}

// SetTipAmount sets the tip as a flat amount and derives the equivalent
// percentage for display. The two tip controls are views of one value.
func (e *Engine) SetTipAmount(amount any) {
	value := money.ToNumber(amount)
	if value < 0 {
		value = 0
	}
	e.tipAmount = value
	e.tipByPercent = false
	if subtotal := e.cart.Subtotal(); subtotal > 0 {
		e.tipPercent = value / subtotal * 100
	} else {
		e.tipPercent = 0
	}
}

// TipAmount returns the current tip value.
func (e *Engine) TipAmount() float64 {
	return e.tipAmount
}

// TipPercent returns the percentage view of the current tip.
func (e *Engine) TipPercent() float64 {
	return e.tipPercent
}

// SetCustomer binds the loyalty customer whose points bound redemption.
// Passing nil clears the reference.
func (e *Engine) SetCustomer(customer *types.LoyaltyCustomer) {
	e.customer = customer
	e.clampPoints()
}

// Customer returns the bound loyalty customer, if any.
func (e *Engine) Customer() *types.LoyaltyCustomer {
	return e.customer
}

// MaxRedeemablePoints is the redemption ceiling: the customer's balance
// capped at the pre-tax order value.
func (e *Engine) MaxRedeemablePoints() int {
	if e.customer == nil {
		return 0
	}
	ceiling := int(math.Floor(e.cart.Subtotal() * e.pointsPerUnit))
	if e.customer.LoyaltyPoints < ceiling {
		return e.customer.LoyaltyPoints
	}
	return ceiling
}

// SetPointsToRedeem sets the redemption, clamped into [0, ceiling].
func (e *Engine) SetPointsToRedeem(points int) {
	if points < 0 {
		points = 0
	}
	e.pointsToRedeem = points
	e.clampPoints()
}

// PointsToRedeem returns the active redemption.
func (e *Engine) PointsToRedeem() int {
	return e.pointsToRedeem
}

// RedemptionValue converts the active redemption into currency.
func (e *Engine) RedemptionValue() float64 {
	return float64(e.pointsToRedeem) / e.pointsPerUnit
}

// SetExtraCharge records an ad-hoc additive charge with an optional note.
// Meaningless on an empty cart, where it resets instead.
func (e *Engine) SetExtraCharge(amount any, note string) {
	if e.cart.IsEmpty() {
		e.extraCharge = 0
		e.extraChargeNote = ""
		return
	}
	value := money.ToNumber(amount)
	if value < 0 {
		value = 0
	}
	e.extraCharge = value
	e.extraChargeNote = strings.TrimSpace(note)
}

// ExtraCharge returns the current extra charge and note.
func (e *Engine) ExtraCharge() (float64, string) {
	return e.extraCharge, e.extraChargeNote
}

// EnableSplit turns on split payment for the given secondary leg. Only an
// administrator may split; the amount must leave a non-zero remainder for
// the primary method.
func (e *Engine) EnableSplit(method enums.PaymentMethod, amount float64, primary enums.PaymentMethod) error {
	if e.operatorRole != enums.OperatorRoleAdmin {
		return ErrSplitForbidden
	}
	if !method.IsValid() || method == primary {
		return ErrInvalidSplitMethod
	}
	if err := ValidateSplit(amount, e.Total()); err != nil {
		return err
	}
	e.split = SplitPayment{Enabled: true, Method: method, Amount: amount}
	return nil
}

// DisableSplit removes the split leg.
func (e *Engine) DisableSplit() {
	e.split = SplitPayment{}
}

// Split returns the current split state.
func (e *Engine) Split() SplitPayment {
	return e.split
}

// ValidateSplit rejects a split amount outside (0, total).
func ValidateSplit(amount, total float64) error {
	if amount <= 0 || amount >= total {
		return ErrInvalidSplitAmount
	}
	return nil
}

// ValidateSubmission runs the hard gates ahead of any network call.
func (e *Engine) ValidateSubmission(customerName string) error {
	if e.cart.IsEmpty() {
		return ErrEmptyCart
	}
	if strings.TrimSpace(customerName) == "" {
		return ErrMissingCustomerName
	}
	if e.split.Enabled {
		if err := ValidateSplit(e.split.Amount, e.Total()); err != nil {
			return err
		}
	}
	return nil
}

// Total derives the payable amount. Redemption is clamped by the ceiling,
// so the result cannot go negative for valid inputs; it is floored at zero
// regardless.
func (e *Engine) Total() float64 {
	total := e.cart.Subtotal() + e.tax.Amount + e.tipAmount + e.extraCharge - e.RedemptionValue()
	if total < 0 {
		return 0
	}
	return total
}

// Recompute re-derives the adjustment fields after a cart or customer
// change: a percentage tip tracks the new subtotal, a flat tip re-derives
// its displayed percentage, and the redemption is re-clamped.
func (e *Engine) Recompute() {
	subtotal := e.cart.Subtotal()
	if e.tipByPercent {
		e.tipAmount = subtotal * e.tipPercent / 100
	} else if subtotal > 0 {
		e.tipPercent = e.tipAmount / subtotal * 100
	} else {
		e.tipPercent = 0
	}
	if e.cart.IsEmpty() {
		e.extraCharge = 0
		e.extraChargeNote = ""
	}
	e.clampPoints()
}

// Reset returns every adjustment to its initial state. The cart itself is
// owned by the caller.
func (e *Engine) Reset() {
	e.tax = types.ZeroTaxQuote()
	e.tipPercent = 0
	e.tipAmount = 0
	e.tipByPercent = false
	e.pointsToRedeem = 0
	e.extraCharge = 0
	e.extraChargeNote = ""
	e.split = SplitPayment{}
}

// Snapshot returns the display-rounded pricing state.
func (e *Engine) Snapshot() State {
	return State{
		Subtotal:        money.Round2(e.cart.Subtotal()),
		Tax:             e.tax,
		TipPercent:      e.tipPercent,
		TipAmount:       money.Round2(e.tipAmount),
		PointsRedeemed:  e.pointsToRedeem,
		RedemptionValue: money.Round2(e.RedemptionValue()),
		ExtraCharge:     money.Round2(e.extraCharge),
		ExtraChargeNote: e.extraChargeNote,
		Split:           e.split,
		Total:           money.Round2(e.Total()),
	}
}

func (e *Engine) clampPoints() {
	if ceiling := e.MaxRedeemablePoints(); e.pointsToRedeem > ceiling {
		e.pointsToRedeem = ceiling
	}
}
