package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/metrics"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/notify"
	"github.com/brightpath/institute-api/internal/payment"
	"github.com/brightpath/institute-api/internal/repository"
)

// Sentinel errors for payments.
var (
	ErrSignatureInvalid = errors.New("payment signature mismatch")
	ErrOrderMismatch    = errors.New("order does not belong to registration")
	ErrInvalidAmount    = errors.New("amount must be positive")
)

const maxReceiptLen = 40

// CreateOrderInput is the checkout request from the registration page.
type CreateOrderInput struct {
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	ExamID         string  `json:"examId"`
	RegistrationID string  `json:"registrationId"`
	Name           string  `json:"name"`
	Email          string  `json:"email" binding:"omitempty,email"`
	Mobile         string  `json:"mobile"`
}

// OrderResult is what the browser needs to open the checkout widget.
type OrderResult struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// VerifyInput carries the gateway's post-checkout callback fields.
type VerifyInput struct {
	OrderID        string `json:"razorpay_order_id" binding:"required"`
	PaymentID      string `json:"razorpay_payment_id" binding:"required"`
	Signature      string `json:"razorpay_signature" binding:"required"`
	RegistrationID string `json:"registrationId" binding:"required"`
}

// PaymentService creates gateway orders and verifies completed payments.
type PaymentService struct {
	gateway    payment.Gateway
	regs       RegistrationStore
	exams      ExamGetter
	queue      notify.Queue
	feed       ActivityPublisher
	log        zerolog.Logger
	secret     string
	currency   string
	adminEmail string
	staleAfter time.Duration
	now        func() time.Time
}

// PaymentConfig holds the gateway settings PaymentService needs.
type PaymentConfig struct {
	KeySecret  string
	Currency   string
	AdminEmail string
	// StaleAfter is how long a gateway registration may stay pending before
	// reconciliation asks the gateway about it.
	StaleAfter time.Duration
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	gateway payment.Gateway,
	regs RegistrationStore,
	exams ExamGetter,
	queue notify.Queue,
	feed ActivityPublisher,
	cfg PaymentConfig,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:    gateway,
		regs:       regs,
		exams:      exams,
		queue:      queue,
		feed:       feed,
		log:        log.With().Str("component", "payment_service").Logger(),
		secret:     cfg.KeySecret,
		currency:   cfg.Currency,
		adminEmail: cfg.AdminEmail,
		staleAfter: cfg.StaleAfter,
		now:        time.Now,
	}
}

// CreateOrder opens a gateway order for amount (major units). No local state
// changes except remembering the order id on a named registration.
func (s *PaymentService) CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderResult, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := s.now()
	receipt := fmt.Sprintf("rcpt_%s_%d", in.ExamID, now.UnixMilli())
	if len(receipt) > maxReceiptLen {
		receipt = receipt[:maxReceiptLen]
	}

	order, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		AmountMinor: int64(math.Round(in.Amount * 100)),
		Currency:    s.currency,
		Receipt:     receipt,
		Notes: map[string]string{
			"examId": in.ExamID,
			"name":   in.Name,
			"email":  in.Email,
			"mobile": in.Mobile,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if in.RegistrationID != "" {
		if id, err := repository.ParseID(in.RegistrationID); err == nil {
			if err := s.regs.SetOrderID(ctx, id, order.ID, now.UTC()); err != nil {
				s.log.Warn().Err(err).Str("order_id", order.ID).Msg("Failed to remember order id")
			}
		}
	}

	return &OrderResult{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Key:      s.gateway.KeyID(),
	}, nil
}

// Verify checks the checkout signature and marks the registration paid.
// A bad signature changes nothing.
func (s *PaymentService) Verify(ctx context.Context, in VerifyInput) (string, error) {
	if !payment.VerifySignature(s.secret, in.OrderID, in.PaymentID, in.Signature) {
		metrics.SignatureFailures.Inc()
		s.log.Warn().
			Str("order_id", in.OrderID).
			Str("registration_id", in.RegistrationID).
			Msg("Payment signature mismatch")
		return "", ErrSignatureInvalid
	}

	reg, err := s.regs.Get(ctx, in.RegistrationID)
	if err != nil {
		return "", errRegistrationLookup(err)
	}
	if reg.RazorpayOrderID != "" && reg.RazorpayOrderID != in.OrderID {
		s.log.Warn().
			Str("order_id", in.OrderID).
			Str("expected_order_id", reg.RazorpayOrderID).
			Str("registration_id", in.RegistrationID).
			Msg("Payment order does not match registration")
		return "", ErrOrderMismatch
	}

	if err := s.complete(ctx, reg, in.OrderID, in.PaymentID, "verify"); err != nil {
		return "", err
	}
	return in.PaymentID, nil
}

// Reconcile resolves gateway registrations stuck in pending whose order has a
// captured payment. Returns how many were completed.
func (s *PaymentService) Reconcile(ctx context.Context) (int, error) {
	stale, err := s.regs.ListStalePending(ctx, s.now().UTC().Add(-s.staleAfter))
	if err != nil {
		return 0, fmt.Errorf("list stale registrations: %w", err)
	}

	resolved := 0
	for i := range stale {
		reg := &stale[i]
		payments, err := s.gateway.OrderPayments(ctx, reg.RazorpayOrderID)
		if err != nil {
			s.log.Warn().Err(err).Str("order_id", reg.RazorpayOrderID).Msg("Order lookup failed")
			continue
		}

		captured := ""
		for _, p := range payments {
			if p.Captured() {
				captured = p.ID
				break
			}
		}
		if captured == "" {
			s.log.Debug().
				Str("registration_number", reg.RegistrationNumber).
				Int("attempts", len(payments)).
				Msg("Order has no captured payment yet")
			continue
		}

		if err := s.complete(ctx, reg, reg.RazorpayOrderID, captured, "reconcile"); err != nil {
			s.log.Error().Err(err).Str("registration_number", reg.RegistrationNumber).Msg("Failed to complete registration")
			continue
		}
		resolved++
	}
	return resolved, nil
}

func (s *PaymentService) complete(ctx context.Context, reg *model.ExamRegistration, orderID, paymentID, source string) error {
	now := s.now().UTC()
	if _, err := s.regs.MarkPaid(ctx, reg.ID, orderID, paymentID, now); err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	metrics.PaymentsCompleted.WithLabelValues(source).Inc()

	s.log.Info().
		Str("registration_number", reg.RegistrationNumber).
		Str("payment_id", paymentID).
		Str("source", source).
		Msg("Payment completed")

	examTitle := ""
	if exam, err := s.exams.Get(ctx, reg.ExamID.Hex()); err == nil {
		examTitle = exam.Title
	}
	data := map[string]string{
		"name":               reg.Name,
		"email":              reg.Email,
		"examTitle":          examTitle,
		"registrationNumber": reg.RegistrationNumber,
		"paymentId":          paymentID,
	}
	enqueue(ctx, s.queue, s.log, notify.Notification{
		Kind: notify.KindPaymentConfirmation,
		To:   []string{reg.Email},
		Data: data,
	})
	if s.adminEmail != "" {
		enqueue(ctx, s.queue, s.log, notify.Notification{
			Kind: notify.KindPaymentAdminAlert,
			To:   []string{s.adminEmail},
			Data: data,
		})
	}
	publish(ctx, s.feed, s.log, model.ActivityEvent{
		Kind:    model.ActivityPayment,
		Summary: reg.Name + " paid for " + examTitle,
		Ref:     reg.RegistrationNumber,
		At:      now,
	})
	return nil
}
