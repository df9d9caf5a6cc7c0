// Package payment opens payment sessions for placed orders.
//
// The order service only needs a redirect URL and a session id back; the
// provider's own protocol stays behind the Provider interface.
package payment

import (
	"context"
	"errors"
	"fmt"
)

// Request describes the amount to collect for one order.
type Request struct {
	OrderNumber string `json:"orderNumber"`
	AmountMinor int64  `json:"amountMinor"`
	Currency    string `json:"currency"`
}

// Session is the provider's answer to a Request.
type Session struct {
	ID          string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
}

// Provider creates payment sessions.
type Provider interface {
	CreateSession(ctx context.Context, req Request) (*Session, error)
}

// ErrInvalidRequest is returned before contacting the provider.
var ErrInvalidRequest = errors.New("invalid payment request")

func validate(req Request) error {
	if req.OrderNumber == "" {
		return fmt.Errorf("%w: order number is required", ErrInvalidRequest)
	}
	if req.AmountMinor < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidRequest)
	}
	if len(req.Currency) != 3 {
		return fmt.Errorf("%w: currency must be an ISO 4217 code", ErrInvalidRequest)
	}
	return nil
}
