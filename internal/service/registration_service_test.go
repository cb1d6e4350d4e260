package service

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/notify"
)

type registrationFixture struct {
	svc   *RegistrationService
	regs  *fakeRegistrations
	exams *fakeExams
	queue *fakeQueue
	feed  *fakeFeed
	crm   *fakeCRM
	exam  *model.Exam
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()
	f := &registrationFixture{
		regs:  newFakeRegistrations(),
		exams: newFakeExams(),
		queue: &fakeQueue{},
		feed:  &fakeFeed{},
		crm:   &fakeCRM{},
	}
	f.exam = &model.Exam{Title: "MTS 2025", ExamFee: 500, ExamDate: time.Now().Add(72 * time.Hour)}
	f.exam.Active = true
	f.exams.put(f.exam)
	f.svc = NewRegistrationService(f.regs, f.exams, f.queue, f.crm, f.feed, zerolog.Nop())
	return f
}

func applicant(examID, method string) model.CreateRegistrationRequest {
	return model.CreateRegistrationRequest{
		ExamID:        examID,
		Name:          "Asha Verma",
		Email:         "asha@example.com",
		Mobile:        "9876543210",
		PaymentMethod: method,
	}
}

var registrationNumberPattern = regexp.MustCompile(`^REG-[0-9a-f]{8}-\d+$`)

func TestCreateRegistrationGateway(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Create(ctx, applicant(f.exam.ID.Hex(), "gateway"), "/uploads/photo.jpg")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if reg.PaymentStatus != model.PaymentPending {
		t.Errorf("payment status = %s, want pending", reg.PaymentStatus)
	}
	if !registrationNumberPattern.MatchString(reg.RegistrationNumber) {
		t.Errorf("registration number %q has wrong shape", reg.RegistrationNumber)
	}
	if reg.RegistrationNumber[4:12] != f.exam.ID.Hex()[:8] {
		t.Errorf("registration number %q does not embed the exam id prefix", reg.RegistrationNumber)
	}
	if reg.PhotoURL != "/uploads/photo.jpg" {
		t.Errorf("photo url = %q", reg.PhotoURL)
	}

	kinds := f.queue.kinds()
	if len(kinds) != 1 || kinds[0] != notify.KindRegistrationConfirmation {
		t.Errorf("queued = %v, want one registration confirmation", kinds)
	}
	if f.queue.jobs[0].To[0] != "asha@example.com" {
		t.Errorf("confirmation addressed to %v", f.queue.jobs[0].To)
	}
	if len(f.crm.contacts) != 1 || len(f.crm.deals) != 1 {
		t.Errorf("crm contacts=%d deals=%d, want 1 each", len(f.crm.contacts), len(f.crm.deals))
	}
	if stored := f.regs.peek(reg.ID); stored == nil || stored.CRMContactID != "crm_contact_test" {
		t.Errorf("crm contact id not stored: %+v", stored)
	}
	if len(f.feed.events) != 1 || f.feed.events[0].Kind != model.ActivityRegistration {
		t.Errorf("activity = %+v", f.feed.events)
	}
}

func TestCreateRegistrationOfflineMethodsArePendingCash(t *testing.T) {
	f := newRegistrationFixture(t)
	for _, method := range []string{"cash", "", "bank_transfer"} {
		reg, err := f.svc.Create(context.Background(), applicant(f.exam.ID.Hex(), method), "")
		if err != nil {
			t.Fatalf("%q: %v", method, err)
		}
		if reg.PaymentStatus != model.PaymentPendingCash {
			t.Errorf("%q: payment status = %s, want pending_cash", method, reg.PaymentStatus)
		}
	}
}

func TestCreateRegistrationUnknownExam(t *testing.T) {
	f := newRegistrationFixture(t)
	for _, examID := range []string{"64b000000000000000000000", "not-hex"} {
		_, err := f.svc.Create(context.Background(), applicant(examID, "gateway"), "")
		if !errors.Is(err, ErrExamNotFound) {
			t.Errorf("%s: err = %v, want ErrExamNotFound", examID, err)
		}
	}
	if all, _ := f.regs.ListAll(context.Background(), model.RegistrationFilter{}); len(all) != 0 {
		t.Errorf("stored %d registrations, want none", len(all))
	}
	if len(f.queue.jobs) != 0 {
		t.Errorf("queued %d notifications, want none", len(f.queue.jobs))
	}
}

func TestCreateRegistrationSurvivesSideEffectFailures(t *testing.T) {
	f := newRegistrationFixture(t)
	f.queue.err = errors.New("redis down")
	f.crm.err = errors.New("crm down")

	reg, err := f.svc.Create(context.Background(), applicant(f.exam.ID.Hex(), "gateway"), "")
	if err != nil {
		t.Fatalf("create must not fail on side effects: %v", err)
	}
	if f.regs.peek(reg.ID) == nil {
		t.Error("registration was not persisted")
	}
}

func TestUpdatePaymentStatusManualOverride(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()
	reg, _ := f.svc.Create(ctx, applicant(f.exam.ID.Hex(), "cash"), "")
	f.queue.jobs = nil

	n, err := f.svc.UpdatePaymentStatus(ctx, reg.ID.Hex(), model.PaymentCompleted)
	if err != nil || n != 1 {
		t.Fatalf("update: n=%d err=%v", n, err)
	}
	if got := f.regs.peek(reg.ID).PaymentStatus; got != model.PaymentCompleted {
		t.Errorf("status = %s, want completed", got)
	}
	if kinds := f.queue.kinds(); len(kinds) != 1 || kinds[0] != notify.KindPaymentConfirmation {
		t.Errorf("queued = %v, want one payment confirmation", kinds)
	}

	if _, err := f.svc.UpdatePaymentStatus(ctx, reg.ID.Hex(), "refunded"); !errors.Is(err, ErrInvalidPaymentStatus) {
		t.Errorf("unknown status: err = %v, want ErrInvalidPaymentStatus", err)
	}
	if _, err := f.svc.UpdatePaymentStatus(ctx, "64b000000000000000000000", model.PaymentFailed); !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("missing registration: err = %v, want ErrRegistrationNotFound", err)
	}
}

func TestUpdateRegistrationPatch(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()
	reg, _ := f.svc.Create(ctx, applicant(f.exam.ID.Hex(), "gateway"), "")

	n, err := f.svc.Update(ctx, reg.ID.Hex(), []byte(`{"city":"Jaipur"}`))
	if err != nil || n != 1 {
		t.Fatalf("update: n=%d err=%v", n, err)
	}
	stored := f.regs.peek(reg.ID)
	if stored.City != "Jaipur" || stored.Name != "Asha Verma" {
		t.Errorf("stored = %+v", stored)
	}

	if _, err := f.svc.Update(ctx, reg.ID.Hex(), []byte(`{"paymentStatus":"refunded"}`)); !errors.Is(err, ErrInvalidPaymentStatus) {
		t.Errorf("err = %v, want ErrInvalidPaymentStatus", err)
	}
}

func TestDeleteRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()
	reg, _ := f.svc.Create(ctx, applicant(f.exam.ID.Hex(), "gateway"), "")

	if err := f.svc.Delete(ctx, reg.ID.Hex()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.Delete(ctx, reg.ID.Hex()); !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("err = %v, want ErrRegistrationNotFound", err)
	}
}

func TestExportXLSX(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()
	reg, _ := f.svc.Create(ctx, applicant(f.exam.ID.Hex(), "gateway"), "")

	data, err := f.svc.ExportXLSX(ctx, model.RegistrationFilter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer book.Close()

	header, _ := book.GetCellValue("Registrations", "A1")
	if header != "Registration Number" {
		t.Errorf("A1 = %q", header)
	}
	first, _ := book.GetCellValue("Registrations", "A2")
	if first != reg.RegistrationNumber {
		t.Errorf("A2 = %q, want %q", first, reg.RegistrationNumber)
	}
}
