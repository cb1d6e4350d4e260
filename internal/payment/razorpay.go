package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway implements Gateway with the Razorpay Orders API.
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
}

// NewRazorpayGateway creates a gateway authenticated with the key pair.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
	}
}

// KeyID is the public key the checkout widget needs.
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// CreateOrder opens an order. The SDK has no context support, so ctx is only
// checked before the call.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}
	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %v", ErrGateway, err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: create order: response has no id", ErrGateway)
	}
	currency, _ := body["currency"].(string)
	if currency == "" {
		currency = req.Currency
	}
	return &Order{
		ID:       id,
		Amount:   toInt64(body["amount"], req.AmountMinor),
		Currency: currency,
	}, nil
}

// OrderPayments lists the payments attempted against an order.
func (g *RazorpayGateway) OrderPayments(ctx context.Context, orderID string) ([]Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := g.client.Order.Payments(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: order payments: %v", ErrGateway, err)
	}

	items, _ := body["items"].([]interface{})
	payments := make([]Payment, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		id, _ := item["id"].(string)
		status, _ := item["status"].(string)
		payments = append(payments, Payment{
			ID:     id,
			Status: status,
			Amount: toInt64(item["amount"], 0),
		})
	}
	return payments, nil
}

// toInt64 reads a JSON number decoded into interface{}.
func toInt64(v interface{}, fallback int64) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return fallback
}
