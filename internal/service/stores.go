package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
)

// The interfaces below list only what each service calls, so tests can
// substitute in-memory fakes for the Mongo repositories.

// ExamGetter loads exams by id.
type ExamGetter interface {
	Get(ctx context.Context, id string) (*model.Exam, error)
}

// ExamFinder adds the public lookups on exams.
type ExamFinder interface {
	FindBySlug(ctx context.Context, slug string) (*model.Exam, error)
	ListUpcoming(ctx context.Context, now time.Time, limit int64) ([]model.Exam, error)
}

// RegistrationStore is the registration persistence used by the services.
type RegistrationStore interface {
	Insert(ctx context.Context, r *model.ExamRegistration) (primitive.ObjectID, error)
	Get(ctx context.Context, id string) (*model.ExamRegistration, error)
	Replace(ctx context.Context, id primitive.ObjectID, r *model.ExamRegistration) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	FindByNumber(ctx context.Context, number string) (*model.ExamRegistration, error)
	FindByNumberAndEmail(ctx context.Context, number, email string) (*model.ExamRegistration, error)
	SetOrderID(ctx context.Context, id primitive.ObjectID, orderID string, now time.Time) error
	MarkPaid(ctx context.Context, id primitive.ObjectID, orderID, paymentID string, at time.Time) (int64, error)
	SetPaymentStatus(ctx context.Context, id primitive.ObjectID, status model.PaymentStatus, now time.Time) (int64, error)
	SetCRMContactID(ctx context.Context, id primitive.ObjectID, contactID string) error
	Search(ctx context.Context, f model.RegistrationFilter, page, perPage int) ([]model.ExamRegistration, int64, error)
	ListAll(ctx context.Context, f model.RegistrationFilter) ([]model.ExamRegistration, error)
	ListStalePending(ctx context.Context, before time.Time) ([]model.ExamRegistration, error)
}

// GrievanceStore is the grievance persistence used by GrievanceService.
type GrievanceStore interface {
	Insert(ctx context.Context, g *model.Grievance) (primitive.ObjectID, error)
	Get(ctx context.Context, id string) (*model.Grievance, error)
	Delete(ctx context.Context, id string) (int64, error)
	UpdateReview(ctx context.Context, id primitive.ObjectID, status *model.GrievanceStatus, reply *string, now time.Time) (int64, error)
	Search(ctx context.Context, f model.GrievanceFilter) ([]model.Grievance, error)
}

// ResultStore is the result persistence used by ResultService.
type ResultStore interface {
	repository.Collection[model.ExamResult]
	FindForCandidate(ctx context.Context, examID *primitive.ObjectID, number, email string) (*model.ExamResult, error)
}

// AdminUserStore is the admin account persistence.
type AdminUserStore interface {
	repository.Collection[model.AdminUser]
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// isMissing reports whether err means the document does not exist or the id
// could never match one.
func isMissing(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID)
}
