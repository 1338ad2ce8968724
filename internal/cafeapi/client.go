// Package cafeapi talks to the cafe backend that owns authoritative
// pricing: tax quotes, the customer directory, order creation, and the
// advertised payment methods.
package cafeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chirayupatel9/palm-cafe-pos/pkg/config"
	pkgerrors "github.com/chirayupatel9/palm-cafe-pos/pkg/errors"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/money"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/types"
	"github.com/go-playground/validator/v10"
)

// Client is the HTTP client for the cafe backend.
type Client struct {
	baseURL  string
	http     *http.Client
	logg     *logger.Logger
	validate *validator.Validate
}

// New builds a client against the configured backend.
func New(cfg config.ServerConfig, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("server base url is required")
	}
	return &Client{
		baseURL:  base,
		http:     &http.Client{Timeout: cfg.Timeout},
		logg:     logg,
		validate: validator.New(),
	}, nil
}

// CalculateTax fetches the authoritative tax quote for a pre-tax amount.
func (c *Client) CalculateTax(ctx context.Context, subtotal float64) (types.TaxQuote, error) {
	body := map[string]float64{"subtotal": money.Round2(subtotal)}
	var quote types.TaxQuote
	if err := c.doJSON(ctx, http.MethodPost, "/calculate-tax", body, &quote); err != nil {
		return types.TaxQuote{}, err
	}
	return quote, nil
}

// CustomerLogin looks up a loyalty customer by phone. A missing customer
// surfaces as a coded not-found, which callers treat as a normal outcome.
func (c *Client) CustomerLogin(ctx context.Context, phone string) (*types.LoyaltyCustomer, error) {
	body := map[string]string{"phone": strings.TrimSpace(phone)}
	var customer types.LoyaltyCustomer
	if err := c.doJSON(ctx, http.MethodPost, "/customer/login", body, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateOrder posts the full order snapshot. The payload shape is checked
// locally so a malformed snapshot never reaches the wire.
func (c *Client) CreateOrder(ctx context.Context, payload types.OrderPayload) (*types.OrderReceipt, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order payload invalid")
	}
	var receipt types.OrderReceipt
	if err := c.doJSON(ctx, http.MethodPost, "/orders", payload, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// PaymentMethods fetches the advertised tender set. A failure falls back
// to the two-entry default so order entry is never blocked.
func (c *Client) PaymentMethods(ctx context.Context) []types.PaymentOption {
	var options []types.PaymentOption
	if err := c.doJSON(ctx, http.MethodGet, "/payment-methods", nil, &options); err != nil {
		if c.logg != nil {
			c.logg.Warn(ctx, "payment methods unavailable, using fallback")
		}
		return types.FallbackPaymentOptions()
	}
	if len(options) == 0 {
		return types.FallbackPaymentOptions()
	}
	return options
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call cafe backend")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

func statusError(status int, path string) error {
	message := fmt.Sprintf("cafe backend returned %d for %s", status, path)
	switch {
	case status == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	case status == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeForbidden, message)
	case status == http.StatusConflict:
		return pkgerrors.New(pkgerrors.CodeConflict, message)
	case status >= 400 && status < 500:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, message)
	}
}
