package crm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestMockClientReturnsSyntheticIDs(t *testing.T) {
	c := NewMockClient(zerolog.Nop())

	contactID, err := c.UpsertContact(context.Background(), Contact{Email: "a@example.com"})
	if err != nil || !strings.HasPrefix(contactID, "crm_contact_") {
		t.Fatalf("UpsertContact() = %q, %v", contactID, err)
	}

	dealID, err := c.CreateDeal(context.Background(), Deal{ContactID: contactID, Amount: 500})
	if err != nil || !strings.HasPrefix(dealID, "crm_deal_") {
		t.Fatalf("CreateDeal() = %q, %v", dealID, err)
	}
}

func TestMockClientHonoursCancellation(t *testing.T) {
	c := NewMockClient(zerolog.Nop())
	c.Latency = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.UpsertContact(ctx, Contact{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
