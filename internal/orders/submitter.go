// Package orders posts the assembled order snapshot to the cafe backend.
package orders

import (
	"context"
	"sync"

	"github.com/chirayupatel9/palm-cafe-pos/pkg/enums"
	pkgerrors "github.com/chirayupatel9/palm-cafe-pos/pkg/errors"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/metrics"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/types"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// API is the authoritative order creation surface.
type API interface {
	CreateOrder(ctx context.Context, payload types.OrderPayload) (*types.OrderReceipt, error)
}

// Submitter drives the idle/submitting state machine around order creation.
// A failed submission leaves everything the operator entered intact.
type Submitter struct {
	api     API
	logg    *logger.Logger
	metrics *metrics.EngineMetrics

	mu     sync.Mutex
	status enums.SubmissionStatus
}

// NewSubmitter builds an order submitter.
func NewSubmitter(api API, logg *logger.Logger, m *metrics.EngineMetrics) (*Submitter, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders api required")
	}
	return &Submitter{
		api:     api,
		logg:    logg,
		metrics: m,
		status:  enums.SubmissionStatusIdle,
	}, nil
}

// Status reports the current state machine position.
func (s *Submitter) Status() enums.SubmissionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Submit posts the payload. Re-entrant submits are rejected; the state
// always returns to idle so the operator can retry after a failure.
func (s *Submitter) Submit(ctx context.Context, payload types.OrderPayload) (*types.OrderReceipt, error) {
	s.mu.Lock()
	if s.status == enums.SubmissionStatusSubmitting {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an order submission is already in progress")
	}
	s.status = enums.SubmissionStatusSubmitting
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.status = enums.SubmissionStatusIdle
		s.mu.Unlock()
	}()

	receipt, err := s.api.CreateOrder(ctx, payload)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "order submission failed", err)
		}
		s.metrics.IncSubmission(resultFailure)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	if receipt == nil {
		s.metrics.IncSubmission(resultFailure)
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order response missing receipt")
	}

	if s.logg != nil {
		s.logg.Info(s.withOrderContext(ctx, receipt), "order submitted")
	}
	s.metrics.IncSubmission(resultSuccess)
	return receipt, nil
}

func (s *Submitter) withOrderContext(ctx context.Context, receipt *types.OrderReceipt) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithOrderNumber(ctx, receipt.OrderNumber)
}
