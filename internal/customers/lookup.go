// Package customers resolves loyalty customers by phone number with a
// debounce so only the last keystroke's lookup fires.
package customers

import (
	"context"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/chirayupatel9/palm-cafe-pos/pkg/errors"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/metrics"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/types"
)

const (
	outcomeFound    = "found"
	outcomeNotFound = "not_found"
	outcomeFailure  = "failure"
)

// Directory is the remote customer lookup surface.
type Directory interface {
	CustomerLogin(ctx context.Context, phone string) (*types.LoyaltyCustomer, error)
}

// Params groups the lookup dependencies.
type Params struct {
	Directory Directory
	Delay     time.Duration
	MinDigits int
	Logger    *logger.Logger
	Metrics   *metrics.EngineMetrics
	// OnResult receives the resolved customer, or nil when the lookup
	// found nothing or failed softly. Called from the debounce timer
	// goroutine.
	OnResult func(*types.LoyaltyCustomer)
}

// Lookup schedules debounced directory lookups.
type Lookup struct {
	dir       Directory
	delay     time.Duration
	minDigits int
	logg      *logger.Logger
	metrics   *metrics.EngineMetrics
	onResult  func(*types.LoyaltyCustomer)

	mu    sync.Mutex
	timer *time.Timer
}

// NewLookup builds a debounced phone lookup.
func NewLookup(params Params) (*Lookup, error) {
	if params.Directory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer directory required")
	}
	if params.OnResult == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "result callback required")
	}
	if params.Delay <= 0 {
		params.Delay = 500 * time.Millisecond
	}
	if params.MinDigits <= 0 {
		params.MinDigits = 10
	}
	return &Lookup{
		dir:       params.Directory,
		delay:     params.Delay,
		minDigits: params.MinDigits,
		logg:      params.Logger,
		metrics:   params.Metrics,
		onResult:  params.OnResult,
	}, nil
}

// PhoneChanged records a keystroke. Any pending lookup is cancelled; a new
// one is scheduled only once the phone reaches the minimum digit count.
func (l *Lookup) PhoneChanged(phone string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}

	digits := digitCount(phone)
	if digits < l.minDigits {
		return
	}

	trimmed := strings.TrimSpace(phone)
	l.timer = time.AfterFunc(l.delay, func() {
		l.Resolve(context.Background(), trimmed)
	})
}

// Cancel drops any pending lookup.
func (l *Lookup) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// Resolve performs the directory call immediately. Not-found is a normal
// outcome of incremental typing and clears the customer silently; any
// other failure clears the customer and is logged without blocking.
func (l *Lookup) Resolve(ctx context.Context, phone string) {
	customer, err := l.dir.CustomerLogin(ctx, phone)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			l.metrics.IncLookupOutcome(outcomeNotFound)
			l.onResult(nil)
			return
		}
		if l.logg != nil {
			l.logg.Warn(ctx, "customer lookup failed")
		}
		l.metrics.IncLookupOutcome(outcomeFailure)
		l.onResult(nil)
		return
	}
	l.metrics.IncLookupOutcome(outcomeFound)
	l.onResult(customer)
}

func digitCount(phone string) int {
	count := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}
