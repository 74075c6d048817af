// Package payment creates payment intents with a remote processor.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/mockshop/pkg/logging"
)

const (
	DefaultAmount   int64 = 1400
	DefaultCurrency       = "usd"
	DefaultTimeout        = 10 * time.Second
)

var (
	ErrProcessor     = errors.New("payment processor error")
	ErrNotConfigured = errors.New("payment processor not configured")
)

type Processor interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// Item is what the client believes it is paying for. The charged amount does
// not depend on it.
type Item struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type Bridge struct {
	Processor Processor
	Amount    int64
	Currency  string
	Timeout   time.Duration
}

func NewBridge(p Processor, amount int64, currency string, timeout time.Duration) *Bridge {
	if amount <= 0 {
		amount = DefaultAmount
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{Processor: p, Amount: amount, Currency: currency, Timeout: timeout}
}

func (b *Bridge) CreatePaymentIntent(ctx context.Context, items []Item) (string, error) {
	l := logging.FromContext(ctx).With("svc", "payment.intent", "items", len(items))

	if b.Processor == nil {
		l.Error("payment_intent_failed", "error", ErrNotConfigured)
		return "", fmt.Errorf("%w: %w", ErrProcessor, ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()

	secret, err := b.Processor.CreatePaymentIntent(ctx, b.Amount, b.Currency)
	if err != nil {
		l.Error("payment_intent_failed", "amount", b.Amount, "currency", b.Currency, "error", err)
		return "", fmt.Errorf("%w: %w", ErrProcessor, err)
	}
	if secret == "" {
		return "", fmt.Errorf("%w: empty client secret", ErrProcessor)
	}
	return secret, nil
}
