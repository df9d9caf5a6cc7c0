package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type httpProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   zerolog.Logger
}

// NewHTTPProvider returns a Provider that POSTs Request as JSON to
// <endpoint>/sessions and expects a Session back.
func NewHTTPProvider(endpoint, apiKey string, timeout time.Duration, logger zerolog.Logger) Provider {
	return &httpProvider{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "payment").Logger(),
	}
}

func (p *httpProvider) CreateSession(ctx context.Context, req Request) (*Session, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.OrderNumber)
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		p.logger.Error().
			Int("status", resp.StatusCode).
			Str("order_number", req.OrderNumber).
			Str("body", string(snippet)).
			Msg("Payment provider rejected session")
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode payment session: %w", err)
	}
	if session.ID == "" || session.RedirectURL == "" {
		return nil, fmt.Errorf("payment provider returned an incomplete session")
	}

	p.logger.Info().
		Str("order_number", req.OrderNumber).
		Str("session_id", session.ID).
		Int64("amount_minor", req.AmountMinor).
		Msg("Payment session created")

	return &session, nil
}
