package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/notify"
)

// Sentinel errors for grievances.
var (
	ErrGrievanceNotFound      = errors.New("grievance not found")
	ErrInvalidGrievanceStatus = errors.New("invalid grievance status")
)

// GrievanceRegistrations is the registration lookup GrievanceService needs.
type GrievanceRegistrations interface {
	Get(ctx context.Context, id string) (*model.ExamRegistration, error)
	FindByNumberAndEmail(ctx context.Context, number, email string) (*model.ExamRegistration, error)
}

// GrievanceService handles grievance filing and review.
type GrievanceService struct {
	grievances GrievanceStore
	regs       GrievanceRegistrations
	queue      notify.Queue
	feed       ActivityPublisher
	log        zerolog.Logger
	now        func() time.Time
}

// NewGrievanceService creates a new GrievanceService.
func NewGrievanceService(
	grievances GrievanceStore,
	regs GrievanceRegistrations,
	queue notify.Queue,
	feed ActivityPublisher,
	log zerolog.Logger,
) *GrievanceService {
	return &GrievanceService{
		grievances: grievances,
		regs:       regs,
		queue:      queue,
		feed:       feed,
		log:        log.With().Str("component", "grievance_service").Logger(),
		now:        time.Now,
	}
}

// File records a grievance against the registration matching the number and
// email pair. Nothing is inserted when no registration matches.
func (s *GrievanceService) File(ctx context.Context, req model.FileGrievanceRequest, attachmentURL string) (*model.Grievance, error) {
	reg, err := s.regs.FindByNumberAndEmail(ctx, req.RegistrationNumber, req.Email)
	if err != nil {
		return nil, errRegistrationLookup(err)
	}

	now := s.now().UTC()
	g := &model.Grievance{
		ExamID:             reg.ExamID,
		RegistrationID:     reg.ID,
		RegistrationNumber: reg.RegistrationNumber,
		Name:               reg.Name,
		Email:              reg.Email,
		Subject:            req.Subject,
		Description:        req.Description,
		AttachmentURL:      attachmentURL,
		Status:             model.GrievancePending,
	}
	g.Stamp(now)

	if _, err := s.grievances.Insert(ctx, g); err != nil {
		return nil, fmt.Errorf("insert grievance: %w", err)
	}

	enqueue(ctx, s.queue, s.log, notify.Notification{
		Kind: notify.KindGrievanceConfirmation,
		To:   []string{reg.Email},
		Data: map[string]string{
			"name":               reg.Name,
			"grievanceId":        g.ID.Hex(),
			"registrationNumber": reg.RegistrationNumber,
			"subject":            g.Subject,
		},
	})
	publish(ctx, s.feed, s.log, model.ActivityEvent{
		Kind:    model.ActivityGrievance,
		Summary: "Grievance filed by " + reg.Name,
		Ref:     g.ID.Hex(),
		At:      now,
	})
	return g, nil
}

// Update writes status and/or adminReply. When the status changes, exactly
// one status email goes to the applicant, skipped if the registration is gone.
func (s *GrievanceService) Update(ctx context.Context, id string, req model.UpdateGrievanceRequest) (int64, error) {
	if req.Status != nil && !req.Status.Valid() {
		return 0, ErrInvalidGrievanceStatus
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	modified, err := s.grievances.UpdateReview(ctx, existing.ID, req.Status, req.AdminReply, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("update grievance: %w", err)
	}

	if req.Status == nil || *req.Status == existing.Status {
		return modified, nil
	}

	reg, err := s.regs.Get(ctx, existing.RegistrationID.Hex())
	if err != nil {
		if !isMissing(err) {
			s.log.Warn().Err(err).Str("grievance_id", id).Msg("Registration lookup failed, status email skipped")
		}
		return modified, nil
	}

	reply := existing.AdminReply
	if req.AdminReply != nil {
		reply = *req.AdminReply
	}
	enqueue(ctx, s.queue, s.log, notify.Notification{
		Kind: notify.KindGrievanceStatusUpdate,
		To:   []string{reg.Email},
		Data: map[string]string{
			"name":        reg.Name,
			"grievanceId": existing.ID.Hex(),
			"status":      string(*req.Status),
			"adminReply":  reply,
		},
	})
	return modified, nil
}

// Get loads one grievance.
func (s *GrievanceService) Get(ctx context.Context, id string) (*model.Grievance, error) {
	g, err := s.grievances.Get(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, ErrGrievanceNotFound
		}
		return nil, err
	}
	return g, nil
}

// List returns grievances matching f, newest first.
func (s *GrievanceService) List(ctx context.Context, f model.GrievanceFilter) ([]model.Grievance, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrInvalidGrievanceStatus
	}
	return s.grievances.Search(ctx, f)
}

// Delete hard-deletes a grievance.
func (s *GrievanceService) Delete(ctx context.Context, id string) error {
	n, err := s.grievances.Delete(ctx, id)
	if err != nil {
		if isMissing(err) {
			return ErrGrievanceNotFound
		}
		return err
	}
	if n == 0 {
		return ErrGrievanceNotFound
	}
	return nil
}
