package pricing

import (
	pkgerrors "github.com/chirayupatel9/palm-cafe-pos/pkg/errors"
)

// Hard gates surfaced to the operator before any network call. Compared
// with errors.Is.
var (
	ErrEmptyCart           = pkgerrors.New(pkgerrors.CodeValidation, "cart has no items")
	ErrMissingCustomerName = pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	ErrInvalidSplitAmount  = pkgerrors.New(pkgerrors.CodeValidation, "split amount must be greater than zero and less than the total")
	ErrInvalidSplitMethod  = pkgerrors.New(pkgerrors.CodeValidation, "split method must differ from the primary payment method")
	ErrSplitForbidden      = pkgerrors.New(pkgerrors.CodeForbidden, "split payment requires an administrator")
)
