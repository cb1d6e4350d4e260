package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Contact is a person pushed to the CRM.
type Contact struct {
	Name   string
	Email  string
	Mobile string
	Source string
}

// Deal is an opportunity attached to a CRM contact.
type Deal struct {
	ContactID string
	Title     string
	Amount    float64
	Stage     string
}

// Client is the CRM integration surface.
type Client interface {
	UpsertContact(ctx context.Context, c Contact) (string, error)
	CreateDeal(ctx context.Context, d Deal) (string, error)
}

// MockClient stands in for a vendor CRM. It logs every call and returns
// synthetic ids.
type MockClient struct {
	log zerolog.Logger
	// Latency simulates a remote round trip.
	Latency time.Duration
}

// NewMockClient creates a new MockClient.
func NewMockClient(log zerolog.Logger) *MockClient {
	return &MockClient{log: log.With().Str("component", "crm_mock").Logger()}
}

func (m *MockClient) UpsertContact(ctx context.Context, c Contact) (string, error) {
	if err := m.wait(ctx); err != nil {
		return "", err
	}
	id := fmt.Sprintf("crm_contact_%s", uuid.New().String()[:8])
	m.log.Info().
		Str("contact_id", id).
		Str("email", c.Email).
		Str("source", c.Source).
		Msg("CRM contact upserted")
	return id, nil
}

func (m *MockClient) CreateDeal(ctx context.Context, d Deal) (string, error) {
	if err := m.wait(ctx); err != nil {
		return "", err
	}
	id := fmt.Sprintf("crm_deal_%s", uuid.New().String()[:8])
	m.log.Info().
		Str("deal_id", id).
		Str("contact_id", d.ContactID).
		Str("title", d.Title).
		Float64("amount", d.Amount).
		Str("stage", d.Stage).
		Msg("CRM deal created")
	return id, nil
}

func (m *MockClient) wait(ctx context.Context) error {
	if m.Latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.Latency):
		return nil
	}
}
