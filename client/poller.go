// Package client holds the status poller used by frontends and scripts to
// observe webhook-driven settlement through the status endpoint.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/spirolink/SpiroLink-website-sub000/model"
)

const (
	DefaultInterval    = 2 * time.Second
	DefaultMaxAttempts = 60
)

var ErrAttemptsExhausted = errors.New("payment did not reach a terminal status in time")

type statusResponse struct {
	PaymentID     string              `json:"payment_id"`
	Status        model.PaymentStatus `json:"status"`
	TransactionID string              `json:"transaction_id"`
}

type StatusPoller struct {
	client      *resty.Client
	Interval    time.Duration
	MaxAttempts int
}

func NewStatusPoller(baseURL string) *StatusPoller {
	return &StatusPoller{
		client:      resty.New().SetBaseURL(baseURL),
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Poll queries the payment status until it is terminal, the attempt bound is
// reached, or ctx is cancelled. The ticker never outlives the call.
func (p *StatusPoller) Poll(ctx context.Context, paymentID string) (model.PaymentStatus, error) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		status, err := p.fetch(ctx, paymentID)
		if err == nil && status.Terminal() {
			return status, nil
		}
		if err != nil && ctx.Err() != nil {
			return "", ctx.Err()
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}

	return "", ErrAttemptsExhausted
}

func (p *StatusPoller) fetch(ctx context.Context, paymentID string) (model.PaymentStatus, error) {
	var out statusResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/payment/status/" + paymentID)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("status lookup failed: %s", resp.Status())
	}
	return out.Status, nil
}
