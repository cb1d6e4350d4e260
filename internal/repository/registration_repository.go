package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightpath/institute-api/internal/model"
)

// RegistrationRepository handles exam registration data access.
type RegistrationRepository struct {
	*Store[model.ExamRegistration]
}

// NewRegistrationRepository creates a new RegistrationRepository.
func NewRegistrationRepository(db *mongo.Database) *RegistrationRepository {
	return &RegistrationRepository{Store: NewStore[model.ExamRegistration](db, CollRegistrations, SortNewest)}
}

// FindByNumber returns the registration with the given registration number.
func (r *RegistrationRepository) FindByNumber(ctx context.Context, number string) (*model.ExamRegistration, error) {
	return r.FindOne(ctx, bson.M{"registrationNumber": number})
}

// FindByNumberAndEmail matches both fields exactly.
func (r *RegistrationRepository) FindByNumberAndEmail(ctx context.Context, number, email string) (*model.ExamRegistration, error) {
	return r.FindOne(ctx, bson.M{"registrationNumber": number, "email": email})
}

// SetOrderID remembers the gateway order created for a registration.
func (r *RegistrationRepository) SetOrderID(ctx context.Context, id primitive.ObjectID, orderID string, now time.Time) error {
	_, err := r.UpdateFields(ctx, id, bson.M{"razorpayOrderId": orderID, "updatedAt": now})
	return err
}

// MarkPaid records a verified gateway payment.
func (r *RegistrationRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, orderID, paymentID string, at time.Time) (int64, error) {
	return r.UpdateFields(ctx, id, bson.M{
		"paymentStatus":     model.PaymentCompleted,
		"razorpayOrderId":   orderID,
		"razorpayPaymentId": paymentID,
		"paymentVerifiedAt": at,
		"updatedAt":         at,
	})
}

// SetPaymentStatus overwrites the payment status unconditionally.
func (r *RegistrationRepository) SetPaymentStatus(ctx context.Context, id primitive.ObjectID, status model.PaymentStatus, now time.Time) (int64, error) {
	set := bson.M{"paymentStatus": status, "updatedAt": now}
	if status == model.PaymentCompleted {
		set["paymentVerifiedAt"] = now
	}
	return r.UpdateFields(ctx, id, set)
}

// SetCRMContactID stores the CRM contact id returned by the sync.
func (r *RegistrationRepository) SetCRMContactID(ctx context.Context, id primitive.ObjectID, contactID string) error {
	_, err := r.UpdateFields(ctx, id, bson.M{"crmContactId": contactID})
	return err
}

// Search pages through registrations matching f, newest first.
func (r *RegistrationRepository) Search(ctx context.Context, f model.RegistrationFilter, page, perPage int) ([]model.ExamRegistration, int64, error) {
	filter, err := registrationFilter(f)
	if err != nil {
		return nil, 0, err
	}
	q := ListQuery{Filter: filter}
	if perPage > 0 {
		q.Skip = int64((page - 1) * perPage)
		q.Limit = int64(perPage)
	}
	return r.Page(ctx, q)
}

// ListAll returns every registration matching f without paging.
func (r *RegistrationRepository) ListAll(ctx context.Context, f model.RegistrationFilter) ([]model.ExamRegistration, error) {
	filter, err := registrationFilter(f)
	if err != nil {
		return nil, err
	}
	return r.List(ctx, ListQuery{Filter: filter})
}

// ListStalePending returns gateway registrations still pending since before
// the cutoff that have a remembered order id.
func (r *RegistrationRepository) ListStalePending(ctx context.Context, before time.Time) ([]model.ExamRegistration, error) {
	return r.List(ctx, ListQuery{Filter: bson.M{
		"paymentStatus":   model.PaymentPending,
		"createdAt":       bson.M{"$lt": before},
		"razorpayOrderId": bson.M{"$exists": true, "$ne": ""},
	}})
}

// CountByPaymentStatus counts registrations per payment status.
func (r *RegistrationRepository) CountByPaymentStatus(ctx context.Context) (map[string]int64, error) {
	return r.CountBy(ctx, "paymentStatus")
}

func registrationFilter(f model.RegistrationFilter) (bson.M, error) {
	filter := bson.M{}
	if f.ExamID != "" {
		oid, err := ParseID(f.ExamID)
		if err != nil {
			return nil, err
		}
		filter["examId"] = oid
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"email": rx},
			bson.M{"mobile": rx},
			bson.M{"registrationNumber": rx},
		}
	}
	return filter, nil
}
