package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brightpath/institute-api/internal/model"
)

func newHallTicketFixture(examIn time.Duration, status model.PaymentStatus) (*HallTicketService, *model.ExamRegistration) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	exams := newFakeExams()
	exam := &model.Exam{
		Title:     "MTS 2025",
		ExamFee:   500,
		ExamDate:  now.Add(examIn),
		Centers:   []string{"Jaipur"},
		Languages: []string{"English", "Hindi"},
	}
	exams.put(exam)

	regs := newFakeRegistrations()
	reg := &model.ExamRegistration{
		ExamID:             exam.ID,
		Name:               "Asha Verma",
		PaymentStatus:      status,
		RegistrationNumber: "REG-" + exam.ID.Hex()[:8] + "-1717232400000",
	}
	regs.put(reg)

	svc := NewHallTicketService(regs, exams, 7*24*time.Hour)
	svc.now = fixedClock(now)
	return svc, reg
}

func TestIssueHallTicket(t *testing.T) {
	svc, reg := newHallTicketFixture(3*24*time.Hour, model.PaymentCompleted)

	ticket, err := svc.Issue(context.Background(), reg.RegistrationNumber)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if ticket.Exam.Title != "MTS 2025" || ticket.Exam.ExamFee != 500 {
		t.Errorf("exam = %+v", ticket.Exam)
	}
	if ticket.RegistrationNumber != reg.RegistrationNumber || ticket.Name != "Asha Verma" {
		t.Errorf("registration fields not merged: %+v", ticket.ExamRegistration)
	}
	if !strings.HasPrefix(ticket.QRCode, "data:image/png;base64,") {
		t.Errorf("qr code = %.40q", ticket.QRCode)
	}

	pdf, err := svc.RenderPDF(ticket)
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %.10q", pdf)
	}
}

func TestIssueHallTicketRules(t *testing.T) {
	tests := []struct {
		name   string
		examIn time.Duration
		status model.PaymentStatus
		want   error
	}{
		{"exactly seven days out", 7 * 24 * time.Hour, model.PaymentCompleted, nil},
		{"past exam", -24 * time.Hour, model.PaymentCompleted, nil},
		{"too early", 8 * 24 * time.Hour, model.PaymentCompleted, ErrHallTicketNotAvailable},
		{"unpaid", 24 * time.Hour, model.PaymentPending, ErrPaymentNotCompleted},
		{"cash not collected", 24 * time.Hour, model.PaymentPendingCash, ErrPaymentNotCompleted},
		{"failed", 24 * time.Hour, model.PaymentFailed, ErrPaymentNotCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, reg := newHallTicketFixture(tt.examIn, tt.status)
			_, err := svc.Issue(context.Background(), reg.RegistrationNumber)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIssueHallTicketUnknownNumber(t *testing.T) {
	svc, _ := newHallTicketFixture(24*time.Hour, model.PaymentCompleted)
	if _, err := svc.Issue(context.Background(), "REG-00000000-1"); !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("err = %v, want ErrRegistrationNotFound", err)
	}
}
