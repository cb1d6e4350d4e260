package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/notify"
)

func TestSubmitContact(t *testing.T) {
	store := newMemStore[model.Contact, *model.Contact]()
	queue := &fakeQueue{}
	crmClient := &fakeCRM{}
	svc := NewContactService(store, queue, crmClient, &fakeFeed{}, "office@example.com", zerolog.Nop())

	c, err := svc.Submit(context.Background(), &model.Contact{
		Name:    "Ravi",
		Email:   "ravi@example.com",
		Message: "Batch timings?",
		Status:  model.ContactClosed,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	stored := store.peek(c.ID)
	if stored.Status != model.ContactNew || stored.Type != "general" {
		t.Errorf("stored = %+v", stored)
	}
	if kinds := queue.kinds(); len(kinds) != 1 || kinds[0] != notify.KindContactAdminAlert {
		t.Errorf("queued = %v", kinds)
	}
	if queue.jobs[0].To[0] != "office@example.com" {
		t.Errorf("alert addressed to %v", queue.jobs[0].To)
	}
	if len(crmClient.contacts) != 1 {
		t.Errorf("crm contacts = %d", len(crmClient.contacts))
	}
}
