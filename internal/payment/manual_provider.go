package payment

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

type manualProvider struct {
	baseURL string
	logger  zerolog.Logger
}

// NewManualProvider returns a Provider for shops without an online gateway.
// The session points at an instructions page for bank transfer.
func NewManualProvider(baseURL string, logger zerolog.Logger) Provider {
	return &manualProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("component", "payment").Logger(),
	}
}

func (p *manualProvider) CreateSession(ctx context.Context, req Request) (*Session, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	p.logger.Debug().Str("order_number", req.OrderNumber).Msg("Manual payment session")

	return &Session{
		ID:          "manual-" + req.OrderNumber,
		RedirectURL: p.baseURL + "/payment/manual/" + url.PathEscape(req.OrderNumber),
	}, nil
}
