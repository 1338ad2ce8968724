// Package pos owns one order-entry session: the cart, the pricing engine,
// the persisted tenant session, and the collaborators that refine it.
// One session serves one operator on one terminal; it is constructed
// explicitly and passed around rather than living in ambient state.
package pos

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/chirayupatel9/palm-cafe-pos/internal/cart"
	"github.com/chirayupatel9/palm-cafe-pos/internal/customers"
	"github.com/chirayupatel9/palm-cafe-pos/internal/orders"
	"github.com/chirayupatel9/palm-cafe-pos/internal/pricing"
	"github.com/chirayupatel9/palm-cafe-pos/internal/session"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/config"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/enums"
	pkgerrors "github.com/chirayupatel9/palm-cafe-pos/pkg/errors"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/metrics"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/money"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/types"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// SessionKV is the durable tenant-scoped storage behind session records.
type SessionKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(tenant, kind string) string
}

// Operator identifies who is driving the terminal.
type Operator struct {
	Name string
	Role enums.OperatorRole
}

// Params groups the order session dependencies.
type Params struct {
	Tenant    string
	Operator  Operator
	Quoter    pricing.TaxQuoter
	Directory customers.Directory
	OrdersAPI orders.API
	KV        SessionKV
	Pricing   config.PricingConfig
	Session   config.SessionConfig
	Lookup    config.LookupConfig
	Logger    *logger.Logger
	Metrics   *metrics.EngineMetrics
}

// OrderSession drives one order from empty cart to submitted receipt.
type OrderSession struct {
	tenant   string
	operator Operator
	logg     *logger.Logger

	cart          *cart.Cart
	engine        *pricing.Engine
	lookup        *customers.Lookup
	submitter     *orders.Submitter
	customerStore *session.Store[types.LoyaltyCustomer]
	cartStore     *session.Store[[]cart.LineItem]

	// mu guards the operator-entered fields, which the debounced lookup
	// callback mutates from its timer goroutine.
	mu            sync.Mutex
	customerName  string
	customerPhone string
	paymentMethod enums.PaymentMethod
	pickup        enums.PickupOption
}

// New builds an order session for one tenant and operator.
func New(params Params) (*OrderSession, error) {
	if strings.TrimSpace(params.Tenant) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tenant is required")
	}
	if !params.Operator.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "operator role is required")
	}
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session storage required")
	}

	basket := cart.New()
	engine, err := pricing.NewEngine(pricing.Params{
		Cart:          basket,
		Quoter:        params.Quoter,
		OperatorRole:  params.Operator.Role,
		PointsPerUnit: params.Pricing.PointsPerUnit,
		Tenant:        params.Tenant,
		Logger:        params.Logger,
		Metrics:       params.Metrics,
	})
	if err != nil {
		return nil, err
	}

	submitter, err := orders.NewSubmitter(params.OrdersAPI, params.Logger, params.Metrics)
	if err != nil {
		return nil, err
	}

	customerStore, err := session.NewStore(params.KV, params.KV, enums.SessionKindCustomer, params.Session.TTL,
		session.WithEmptyCheck(func(c types.LoyaltyCustomer) bool { return c.IsZero() }),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build customer store")
	}
	cartStore, err := session.NewStore(params.KV, params.KV, enums.SessionKindCart, params.Session.TTL,
		session.WithEmptyCheck(func(items []cart.LineItem) bool { return len(items) == 0 }),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build cart store")
	}

	s := &OrderSession{
		tenant:        params.Tenant,
		operator:      params.Operator,
		logg:          params.Logger,
		cart:          basket,
		engine:        engine,
		submitter:     submitter,
		customerStore: customerStore,
		cartStore:     cartStore,
		paymentMethod: enums.PaymentMethodCash,
		pickup:        enums.PickupOptionPickup,
	}

	s.lookup, err = customers.NewLookup(customers.Params{
		Directory: params.Directory,
		Delay:     params.Lookup.DebounceDelay,
		MinDigits: params.Lookup.MinPhoneDigits,
		Logger:    params.Logger,
		Metrics:   params.Metrics,
		OnResult: func(customer *types.LoyaltyCustomer) {
			s.applyLookupResult(context.Background(), customer)
		},
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Rehydrate restores the persisted customer and cart for this tenant.
// Load failures are soft; whatever survives the TTL comes back.
func (s *OrderSession) Rehydrate(ctx context.Context) error {
	var errs error

	customer, err := s.customerStore.Load(ctx, s.tenant)
	errs = multierr.Append(errs, err)
	if customer != nil && !customer.IsZero() {
		s.bindCustomer(customer)
	}

	items, err := s.cartStore.Load(ctx, s.tenant)
	errs = multierr.Append(errs, err)
	if items != nil && len(*items) > 0 {
		s.cart.Restore(*items)
		s.engine.Recompute()
		s.engine.RecomputeTax(ctx)
	}
	return errs
}

// AddItem appends or increments a cart line and recomputes pricing.
func (s *OrderSession) AddItem(ctx context.Context, input cart.ItemInput) {
	s.cart.Add(input)
	s.afterCartMutation(ctx)
}

// RemoveItem deletes a cart line and recomputes pricing.
func (s *OrderSession) RemoveItem(ctx context.Context, id uuid.UUID) {
	s.cart.Remove(id)
	s.afterCartMutation(ctx)
}

// SetItemQuantity sets a line quantity exactly; zero or less removes the
// line. Pricing is recomputed either way.
func (s *OrderSession) SetItemQuantity(ctx context.Context, id uuid.UUID, qty int) {
	s.cart.SetQuantity(id, qty)
	s.afterCartMutation(ctx)
}

// ClearCart empties the cart, resets every adjustment, and drops the
// persisted cart so no stale monetary state survives.
func (s *OrderSession) ClearCart(ctx context.Context) {
	s.cart.Clear()
	s.engine.Reset()
	if err := s.cartStore.Clear(ctx, s.tenant); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to clear persisted cart")
	}
}

// SetCustomerName records the free-typed customer name.
func (s *OrderSession) SetCustomerName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerName = name
}

// CustomerName returns the current customer name field.
func (s *OrderSession) CustomerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customerName
}

// SetPhone records a phone keystroke and schedules the debounced lookup.
func (s *OrderSession) SetPhone(phone string) {
	s.mu.Lock()
	s.customerPhone = phone
	s.mu.Unlock()
	s.lookup.PhoneChanged(phone)
}

// Phone returns the current phone field.
func (s *OrderSession) Phone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customerPhone
}

// SetPaymentMethod selects the primary tender.
func (s *OrderSession) SetPaymentMethod(method enums.PaymentMethod) error {
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	s.mu.Lock()
	s.paymentMethod = method
	s.mu.Unlock()
	return nil
}

// PaymentMethod returns the selected primary tender.
func (s *OrderSession) PaymentMethod() enums.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentMethod
}

// SetPickupOption selects how the order will be handed over.
func (s *OrderSession) SetPickupOption(option enums.PickupOption) error {
	if !option.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown pickup option")
	}
	s.mu.Lock()
	s.pickup = option
	s.mu.Unlock()
	return nil
}

// PickupOption returns the selected handover mode.
func (s *OrderSession) PickupOption() enums.PickupOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pickup
}

// EnableSplit routes the admin-gated split request through the engine,
// rejecting a secondary method equal to the selected primary tender.
func (s *OrderSession) EnableSplit(method enums.PaymentMethod, amount float64) error {
	return s.engine.EnableSplit(method, amount, s.PaymentMethod())
}

// DisableSplit removes the split leg.
func (s *OrderSession) DisableSplit() {
	s.engine.DisableSplit()
}

// BindCustomer attaches a resolved loyalty customer, pre-fills the name
// field when it is still blank, and persists the session record.
func (s *OrderSession) BindCustomer(ctx context.Context, customer *types.LoyaltyCustomer) {
	s.bindCustomer(customer)
	if customer == nil || customer.IsZero() {
		return
	}
	if err := s.customerStore.Save(ctx, s.tenant, *customer); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to persist customer session")
	}
}

// Logout drops the bound customer and both persisted records. The cart is
// untouched so an in-flight order survives a customer change.
func (s *OrderSession) Logout(ctx context.Context) error {
	s.lookup.Cancel()
	s.mu.Lock()
	s.customerName = ""
	s.customerPhone = ""
	s.mu.Unlock()
	s.engine.SetCustomer(nil)
	s.engine.SetPointsToRedeem(0)
	return s.customerStore.Clear(ctx, s.tenant)
}

// Submit validates the order, posts it, and on success resets the cart and
// adjustments for the next order. The bound customer is kept so repeat
// orders skip the lookup.
func (s *OrderSession) Submit(ctx context.Context) (*types.OrderReceipt, error) {
	name := strings.TrimSpace(s.CustomerName())
	if err := s.engine.ValidateSubmission(name); err != nil {
		return nil, err
	}

	receipt, err := s.submitter.Submit(ctx, s.buildPayload(name))
	if err != nil {
		return nil, err
	}

	s.cart.Clear()
	s.engine.Reset()
	if err := s.cartStore.Clear(ctx, s.tenant); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to clear persisted cart")
	}
	return receipt, nil
}

// Cart exposes the line items for display.
func (s *OrderSession) Cart() *cart.Cart {
	return s.cart
}

// Engine exposes the pricing adjustments surface.
func (s *OrderSession) Engine() *pricing.Engine {
	return s.engine
}

// Submitter exposes the submission state for display.
func (s *OrderSession) Submitter() *orders.Submitter {
	return s.submitter
}

// Close cancels any pending background work.
func (s *OrderSession) Close() {
	s.lookup.Cancel()
}

// afterCartMutation re-derives pricing from the changed cart, refreshes
// the tax quote, and keeps the persisted cart in step.
func (s *OrderSession) afterCartMutation(ctx context.Context) {
	s.engine.Recompute()
	s.engine.RecomputeTax(ctx)
	s.persistCart(ctx)
}

// persistCart mirrors the live cart into the session store. An emptied
// cart deletes the record outright; the empty-skip on save would
// otherwise leave the previous snapshot behind to be rehydrated.
func (s *OrderSession) persistCart(ctx context.Context) {
	if s.cart.IsEmpty() {
		if err := s.cartStore.Clear(ctx, s.tenant); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to clear persisted cart")
		}
		return
	}
	if err := s.cartStore.Save(ctx, s.tenant, s.cart.Items()); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to persist cart")
	}
}

func (s *OrderSession) buildPayload(name string) types.OrderPayload {
	items := s.cart.Items()
	lines := make([]types.OrderItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, types.OrderItem{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: money.Round2(item.UnitPrice),
			Quantity:  item.Quantity,
		})
	}

	split := s.engine.Split()
	extraCharge, extraNote := s.engine.ExtraCharge()

	payload := types.OrderPayload{
		CustomerName:    name,
		CustomerPhone:   strings.TrimSpace(s.Phone()),
		Items:           lines,
		TipAmount:       money.Round2(s.engine.TipAmount()),
		PointsRedeemed:  s.engine.PointsToRedeem(),
		ExtraCharge:     money.Round2(extraCharge),
		ExtraChargeNote: extraNote,
		SplitPayment:    split.Enabled,
		PaymentMethod:   s.PaymentMethod().String(),
		PickupOption:    s.PickupOption().String(),
	}
	if split.Enabled {
		payload.SplitPaymentMethod = split.Method.String()
		payload.SplitAmount = money.Round2(split.Amount)
	}
	return payload
}

// applyLookupResult runs on the debounce timer goroutine. A nil customer
// means not found or soft failure; the stale reference is dropped but the
// typed name is left alone.
func (s *OrderSession) applyLookupResult(ctx context.Context, customer *types.LoyaltyCustomer) {
	if customer == nil {
		s.engine.SetCustomer(nil)
		s.engine.SetPointsToRedeem(0)
		return
	}
	s.BindCustomer(ctx, customer)
}

func (s *OrderSession) bindCustomer(customer *types.LoyaltyCustomer) {
	s.engine.SetCustomer(customer)
	if customer == nil {
		return
	}
	s.mu.Lock()
	if strings.TrimSpace(s.customerName) == "" {
		s.customerName = customer.Name
	}
	if strings.TrimSpace(s.customerPhone) == "" {
		s.customerPhone = customer.Phone
	}
	s.mu.Unlock()
}
