package payment

import (
	"context"
	"errors"
)

// ErrGateway wraps every failure reported by the payment provider.
var ErrGateway = errors.New("payment gateway error")

// OrderRequest describes an order to open with the gateway.
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Order is the gateway's view of a created order.
type Order struct {
	ID       string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Payment is one payment attempt recorded against an order.
type Payment struct {
	ID     string
	Status string
	Amount int64
}

// Captured reports whether the gateway settled the payment.
func (p Payment) Captured() bool {
	return p.Status == "captured"
}

// Gateway is the subset of the payment provider the service needs.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	OrderPayments(ctx context.Context, orderID string) ([]Payment, error)
	KeyID() string
}
