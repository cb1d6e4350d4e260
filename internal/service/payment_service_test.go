package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/notify"
	"github.com/brightpath/institute-api/internal/payment"
)

const testSecret = "test_secret"

type paymentFixture struct {
	svc     *PaymentService
	regs    *fakeRegistrations
	gateway *fakeGateway
	queue   *fakeQueue
	reg     *model.ExamRegistration
	now     time.Time
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := &paymentFixture{
		regs:    newFakeRegistrations(),
		gateway: &fakeGateway{payments: map[string][]payment.Payment{}},
		queue:   &fakeQueue{},
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	exams := newFakeExams()
	exam := &model.Exam{Title: "MTS 2025", ExamFee: 500}
	exams.put(exam)

	f.reg = &model.ExamRegistration{
		ExamID:             exam.ID,
		Name:               "Asha Verma",
		Email:              "asha@example.com",
		PaymentStatus:      model.PaymentPending,
		RegistrationNumber: "REG-abcdef12-1717243200000",
	}
	f.reg.Stamp(f.now.Add(-2 * time.Hour))
	f.regs.put(f.reg)

	f.svc = NewPaymentService(f.gateway, f.regs, exams, f.queue, &fakeFeed{}, PaymentConfig{
		KeySecret:  testSecret,
		Currency:   "INR",
		AdminEmail: "office@example.com",
		StaleAfter: 30 * time.Minute,
	}, zerolog.Nop())
	f.svc.now = fixedClock(f.now)
	return f
}

func TestCreateOrderUsesMinorUnits(t *testing.T) {
	f := newPaymentFixture(t)

	out, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		Amount:         499.99,
		ExamID:         "a-very-long-exam-identifier-that-overflows",
		RegistrationID: f.reg.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if out.Amount != 49999 || out.Currency != "INR" || out.Key != "rzp_test_key" {
		t.Errorf("order = %+v", out)
	}
	if got := len(f.gateway.orders[0].Receipt); got > 40 {
		t.Errorf("receipt length = %d, want <= 40", got)
	}
	if got := f.regs.peek(f.reg.ID).RazorpayOrderID; got != "order_test_1" {
		t.Errorf("remembered order id = %q", got)
	}
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.err = payment.ErrGateway

	if _, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{Amount: 500}); !errors.Is(err, payment.ErrGateway) {
		t.Errorf("err = %v, want ErrGateway", err)
	}
	if _, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{Amount: 0}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.Verify(context.Background(), VerifyInput{
		OrderID:        "order_1",
		PaymentID:      "pay_1",
		Signature:      payment.Sign("wrong_secret", "order_1", "pay_1"),
		RegistrationID: f.reg.ID.Hex(),
	})
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("err = %v, want ErrSignatureInvalid", err)
	}

	stored := f.regs.peek(f.reg.ID)
	if stored.PaymentStatus != model.PaymentPending || stored.RazorpayPaymentID != "" {
		t.Errorf("registration changed on bad signature: %+v", stored)
	}
	if len(f.queue.jobs) != 0 {
		t.Errorf("queued %d notifications on bad signature", len(f.queue.jobs))
	}
}

func TestVerifyCompletesRegistration(t *testing.T) {
	f := newPaymentFixture(t)

	paymentID, err := f.svc.Verify(context.Background(), VerifyInput{
		OrderID:        "order_1",
		PaymentID:      "pay_1",
		Signature:      payment.Sign(testSecret, "order_1", "pay_1"),
		RegistrationID: f.reg.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if paymentID != "pay_1" {
		t.Errorf("payment id = %q", paymentID)
	}

	stored := f.regs.peek(f.reg.ID)
	if stored.PaymentStatus != model.PaymentCompleted {
		t.Errorf("status = %s, want completed", stored.PaymentStatus)
	}
	if stored.RazorpayOrderID != "order_1" || stored.RazorpayPaymentID != "pay_1" {
		t.Errorf("gateway ids = %q / %q", stored.RazorpayOrderID, stored.RazorpayPaymentID)
	}
	if stored.PaymentVerifiedAt == nil || !stored.PaymentVerifiedAt.Equal(f.now) {
		t.Errorf("verified at = %v", stored.PaymentVerifiedAt)
	}

	kinds := f.queue.kinds()
	if len(kinds) != 2 || kinds[0] != notify.KindPaymentConfirmation || kinds[1] != notify.KindPaymentAdminAlert {
		t.Errorf("queued = %v, want applicant confirmation then admin alert", kinds)
	}
}

func TestVerifyRejectsEmptySecret(t *testing.T) {
	f := newPaymentFixture(t)
	f.svc.secret = ""

	_, err := f.svc.Verify(context.Background(), VerifyInput{
		OrderID:        "order_fake",
		PaymentID:      "pay_fake",
		Signature:      payment.Sign("", "order_fake", "pay_fake"),
		RegistrationID: f.reg.ID.Hex(),
	})
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("err = %v, want ErrSignatureInvalid", err)
	}
	if got := f.regs.peek(f.reg.ID).PaymentStatus; got != model.PaymentPending {
		t.Errorf("status = %s, want pending", got)
	}
}

func TestVerifyRejectsForeignOrder(t *testing.T) {
	f := newPaymentFixture(t)
	f.regs.peek(f.reg.ID).RazorpayOrderID = "order_mine"

	_, err := f.svc.Verify(context.Background(), VerifyInput{
		OrderID:        "order_other",
		PaymentID:      "pay_1",
		Signature:      payment.Sign(testSecret, "order_other", "pay_1"),
		RegistrationID: f.reg.ID.Hex(),
	})
	if !errors.Is(err, ErrOrderMismatch) {
		t.Fatalf("err = %v, want ErrOrderMismatch", err)
	}

	stored := f.regs.peek(f.reg.ID)
	if stored.PaymentStatus != model.PaymentPending || stored.RazorpayPaymentID != "" {
		t.Errorf("registration changed on foreign order: %+v", stored)
	}
	if len(f.queue.jobs) != 0 {
		t.Errorf("queued %d notifications on foreign order", len(f.queue.jobs))
	}
}

func TestVerifyUnknownRegistration(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.Verify(context.Background(), VerifyInput{
		OrderID:        "order_1",
		PaymentID:      "pay_1",
		Signature:      payment.Sign(testSecret, "order_1", "pay_1"),
		RegistrationID: "64b000000000000000000000",
	})
	if !errors.Is(err, ErrRegistrationNotFound) {
		t.Errorf("err = %v, want ErrRegistrationNotFound", err)
	}
}

func TestReconcileCompletesCapturedOrders(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	f.regs.SetOrderID(ctx, f.reg.ID, "order_paid", f.now)

	waiting := &model.ExamRegistration{
		Email:              "other@example.com",
		PaymentStatus:      model.PaymentPending,
		RegistrationNumber: "REG-abcdef12-2",
		RazorpayOrderID:    "order_unpaid",
	}
	waiting.Stamp(f.now.Add(-3 * time.Hour))
	f.regs.put(waiting)

	fresh := &model.ExamRegistration{
		PaymentStatus:      model.PaymentPending,
		RegistrationNumber: "REG-abcdef12-3",
		RazorpayOrderID:    "order_fresh",
	}
	fresh.Stamp(f.now.Add(-5 * time.Minute))
	f.regs.put(fresh)

	f.gateway.payments["order_paid"] = []payment.Payment{
		{ID: "pay_failed", Status: "failed"},
		{ID: "pay_ok", Status: "captured"},
	}
	f.gateway.payments["order_unpaid"] = []payment.Payment{{ID: "pay_x", Status: "failed"}}
	f.gateway.payments["order_fresh"] = []payment.Payment{{ID: "pay_y", Status: "captured"}}

	n, err := f.svc.Reconcile(ctx)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if n != 1 {
		t.Errorf("resolved = %d, want 1", n)
	}

	if got := f.regs.peek(f.reg.ID); got.PaymentStatus != model.PaymentCompleted || got.RazorpayPaymentID != "pay_ok" {
		t.Errorf("paid registration = %+v", got)
	}
	if got := f.regs.peek(waiting.ID).PaymentStatus; got != model.PaymentPending {
		t.Errorf("unpaid registration status = %s, want pending", got)
	}
	if got := f.regs.peek(fresh.ID).PaymentStatus; got != model.PaymentPending {
		t.Errorf("fresh registration status = %s, want pending", got)
	}
}
