package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/crm"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/notify"
	"github.com/brightpath/institute-api/internal/repository"
)

// ContactService handles public enquiries and their admin management.
type ContactService struct {
	*ContentService[model.Contact, *model.Contact]
	queue      notify.Queue
	crm        crm.Client
	feed       ActivityPublisher
	adminEmail string
	log        zerolog.Logger
}

// NewContactService creates a new ContactService.
func NewContactService(
	contacts repository.Collection[model.Contact],
	queue notify.Queue,
	crmClient crm.Client,
	feed ActivityPublisher,
	adminEmail string,
	log zerolog.Logger,
) *ContactService {
	return &ContactService{
		ContentService: NewContentService[model.Contact, *model.Contact](contacts),
		queue:          queue,
		crm:            crmClient,
		feed:           feed,
		adminEmail:     adminEmail,
		log:            log.With().Str("component", "contact_service").Logger(),
	}
}

// Submit stores a public enquiry as new and alerts the office.
func (s *ContactService) Submit(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	c.Status = model.ContactNew
	if c.Type == "" {
		c.Type = "general"
	}
	created, err := s.Create(ctx, c)
	if err != nil {
		return nil, err
	}

	if s.adminEmail != "" {
		enqueue(ctx, s.queue, s.log, notify.Notification{
			Kind: notify.KindContactAdminAlert,
			To:   []string{s.adminEmail},
			Data: map[string]string{
				"name":    c.Name,
				"email":   c.Email,
				"mobile":  c.Mobile,
				"subject": c.Subject,
				"message": c.Message,
			},
		})
	}
	if s.crm != nil {
		if _, err := s.crm.UpsertContact(ctx, crm.Contact{
			Name:   c.Name,
			Email:  c.Email,
			Mobile: c.Mobile,
			Source: "contact_form",
		}); err != nil {
			s.log.Warn().Err(err).Msg("CRM contact sync failed")
		}
	}
	publish(ctx, s.feed, s.log, model.ActivityEvent{
		Kind:    model.ActivityContact,
		Summary: "Enquiry from " + c.Name,
		Ref:     created.ID.Hex(),
		At:      time.Now().UTC(),
	})
	return created, nil
}
