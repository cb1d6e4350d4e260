package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/brightpath/institute-api/internal/crm"
	"github.com/brightpath/institute-api/internal/metrics"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/notify"
)

// Sentinel errors for the registration lifecycle.
var (
	ErrExamNotFound         = errors.New("exam not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// RegistrationService handles exam registrations and their admin management.
type RegistrationService struct {
	regs  RegistrationStore
	exams ExamGetter
	queue notify.Queue
	crm   crm.Client
	feed  ActivityPublisher
	log   zerolog.Logger
	now   func() time.Time
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	regs RegistrationStore,
	exams ExamGetter,
	queue notify.Queue,
	crmClient crm.Client,
	feed ActivityPublisher,
	log zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		regs:  regs,
		exams: exams,
		queue: queue,
		crm:   crmClient,
		feed:  feed,
		log:   log.With().Str("component", "registration_service").Logger(),
		now:   time.Now,
	}
}

// Create registers an applicant for an exam. The confirmation email, CRM sync
// and activity event are best effort.
func (s *RegistrationService) Create(ctx context.Context, req model.CreateRegistrationRequest, photoURL string) (*model.ExamRegistration, error) {
	exam, err := s.exams.Get(ctx, req.ExamID)
	if err != nil {
		if isMissing(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("load exam: %w", err)
	}

	now := s.now().UTC()
	reg := &model.ExamRegistration{
		ExamID:             exam.ID,
		Name:               req.Name,
		FatherName:         req.FatherName,
		Email:              req.Email,
		Mobile:             req.Mobile,
		DateOfBirth:        req.DateOfBirth,
		Gender:             req.Gender,
		Address:            req.Address,
		City:               req.City,
		State:              req.State,
		Pincode:            req.Pincode,
		Qualification:      req.Qualification,
		Center:             req.Center,
		Language:           req.Language,
		PhotoURL:           photoURL,
		PaymentMethod:      req.PaymentMethod,
		PaymentStatus:      model.InitialPaymentStatus(req.PaymentMethod),
		RegistrationNumber: model.NewRegistrationNumber(exam.ID, now),
	}
	reg.Stamp(now)

	if _, err := s.regs.Insert(ctx, reg); err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	metrics.RegistrationsCreated.WithLabelValues(string(reg.PaymentStatus)).Inc()

	s.log.Info().
		Str("registration_number", reg.RegistrationNumber).
		Str("exam_id", exam.ID.Hex()).
		Str("payment_status", string(reg.PaymentStatus)).
		Msg("Registration created")

	enqueue(ctx, s.queue, s.log, notify.Notification{
		Kind: notify.KindRegistrationConfirmation,
		To:   []string{reg.Email},
		Data: map[string]string{
			"name":               reg.Name,
			"examTitle":          exam.Title,
			"registrationNumber": reg.RegistrationNumber,
			"paymentStatus":      string(reg.PaymentStatus),
			"examDate":           exam.ExamDate.Format("02 Jan 2006"),
		},
	})
	publish(ctx, s.feed, s.log, model.ActivityEvent{
		Kind:    model.ActivityRegistration,
		Summary: reg.Name + " registered for " + exam.Title,
		Ref:     reg.RegistrationNumber,
		At:      now,
	})
	s.syncCRM(ctx, reg, exam)

	return reg, nil
}

func (s *RegistrationService) syncCRM(ctx context.Context, reg *model.ExamRegistration, exam *model.Exam) {
	if s.crm == nil {
		return
	}
	contactID, err := s.crm.UpsertContact(ctx, crm.Contact{
		Name:   reg.Name,
		Email:  reg.Email,
		Mobile: reg.Mobile,
		Source: "exam_registration",
	})
	if err != nil {
		s.log.Warn().Err(err).Str("registration_number", reg.RegistrationNumber).Msg("CRM contact sync failed")
		return
	}
	if _, err := s.crm.CreateDeal(ctx, crm.Deal{
		ContactID: contactID,
		Title:     exam.Title + " / " + reg.RegistrationNumber,
		Amount:    exam.ExamFee,
		Stage:     string(reg.PaymentStatus),
	}); err != nil {
		s.log.Warn().Err(err).Str("registration_number", reg.RegistrationNumber).Msg("CRM deal sync failed")
	}
	if err := s.regs.SetCRMContactID(ctx, reg.ID, contactID); err != nil {
		s.log.Warn().Err(err).Msg("Failed to store CRM contact id")
		return
	}
	reg.CRMContactID = contactID
}

// Get loads a registration by id.
func (s *RegistrationService) Get(ctx context.Context, id string) (*model.ExamRegistration, error) {
	reg, err := s.regs.Get(ctx, id)
	if err != nil {
		return nil, errRegistrationLookup(err)
	}
	return reg, nil
}

// Search pages through registrations for the admin listing.
func (s *RegistrationService) Search(ctx context.Context, f model.RegistrationFilter, page, perPage int) ([]model.ExamRegistration, int64, error) {
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return nil, 0, ErrInvalidPaymentStatus
	}
	return s.regs.Search(ctx, f, page, perPage)
}

// Update merges an admin patch onto a registration and returns the modified count.
func (s *RegistrationService) Update(ctx context.Context, id string, patch []byte) (int64, error) {
	reg, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if _, err := mergePatch(reg, patch); err != nil {
		return 0, err
	}
	if !reg.PaymentStatus.Valid() {
		return 0, ErrInvalidPaymentStatus
	}
	reg.Touch(s.now().UTC())
	return s.regs.Replace(ctx, reg.ID, reg)
}

// UpdatePaymentStatus is the manual override used for cash payments and
// failures. Any target status is accepted.
func (s *RegistrationService) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus) (int64, error) {
	if !status.Valid() {
		return 0, ErrInvalidPaymentStatus
	}
	reg, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	modified, err := s.regs.SetPaymentStatus(ctx, reg.ID, status, now)
	if err != nil {
		return 0, fmt.Errorf("set payment status: %w", err)
	}

	if status == model.PaymentCompleted && reg.PaymentStatus != model.PaymentCompleted {
		metrics.PaymentsCompleted.WithLabelValues("admin").Inc()
		examTitle := ""
		if exam, err := s.exams.Get(ctx, reg.ExamID.Hex()); err == nil {
			examTitle = exam.Title
		}
		enqueue(ctx, s.queue, s.log, notify.Notification{
			Kind: notify.KindPaymentConfirmation,
			To:   []string{reg.Email},
			Data: map[string]string{
				"name":               reg.Name,
				"examTitle":          examTitle,
				"registrationNumber": reg.RegistrationNumber,
				"paymentId":          "offline",
			},
		})
	}
	publish(ctx, s.feed, s.log, model.ActivityEvent{
		Kind:    model.ActivityPayment,
		Summary: reg.RegistrationNumber + " marked " + string(status),
		Ref:     reg.RegistrationNumber,
		At:      now,
	})
	return modified, nil
}

// Delete hard-deletes a registration.
func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	n, err := s.regs.Delete(ctx, id)
	if err != nil {
		if isMissing(err) {
			return ErrRegistrationNotFound
		}
		return err
	}
	if n == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

var exportColumns = []string{
	"Registration Number", "Name", "Father Name", "Email", "Mobile", "Date of Birth",
	"Gender", "City", "State", "Pincode", "Qualification", "Center", "Language",
	"Payment Method", "Payment Status", "Payment Id", "Registered At",
}

// ExportXLSX renders the registrations matching f as a spreadsheet.
func (s *RegistrationService) ExportXLSX(ctx context.Context, f model.RegistrationFilter) ([]byte, error) {
	regs, err := s.regs.ListAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Registrations"
	file.SetSheetName("Sheet1", sheet)

	for i, title := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, title)
	}
	for row, r := range regs {
		values := []interface{}{
			r.RegistrationNumber, r.Name, r.FatherName, r.Email, r.Mobile, r.DateOfBirth,
			r.Gender, r.City, r.State, r.Pincode, r.Qualification, r.Center, r.Language,
			r.PaymentMethod, string(r.PaymentStatus), r.RazorpayPaymentID,
			r.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	s.log.Info().Int("rows", len(regs)).Msg("Registrations exported")
	return buf.Bytes(), nil
}

// errRegistrationLookup maps store misses to ErrRegistrationNotFound.
func errRegistrationLookup(err error) error {
	if isMissing(err) {
		return ErrRegistrationNotFound
	}
	return err
}
