package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightpath/institute-api/internal/crm"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/notify"
	"github.com/brightpath/institute-api/internal/payment"
	"github.com/brightpath/institute-api/internal/repository"
)

// memStore is an in-memory repository.Collection keyed by ObjectID.
type memStore[T any, P model.DocumentPtr[T]] struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*T
	ids  []primitive.ObjectID
}

func newMemStore[T any, P model.DocumentPtr[T]]() *memStore[T, P] {
	return &memStore[T, P]{docs: map[primitive.ObjectID]*T{}}
}

func (m *memStore[T, P]) List(_ context.Context, q repository.ListQuery) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []T{}
	for _, id := range m.ids {
		doc, ok := m.docs[id]
		if !ok {
			continue
		}
		if q.ActiveOnly {
			if v, ok := any(P(doc)).(model.Visible); ok && !v.IsActive() {
				continue
			}
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (m *memStore[T, P]) Get(_ context.Context, id string) (*T, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (m *memStore[T, P]) Insert(_ context.Context, doc *T) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := P(doc)
	if p.GetID().IsZero() {
		p.SetID(primitive.NewObjectID())
	}
	cp := *doc
	m.docs[p.GetID()] = &cp
	m.ids = append(m.ids, p.GetID())
	return p.GetID(), nil
}

func (m *memStore[T, P]) Replace(_ context.Context, id primitive.ObjectID, doc *T) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return 0, nil
	}
	cp := *doc
	m.docs[id] = &cp
	return 1, nil
}

func (m *memStore[T, P]) Delete(_ context.Context, id string) (int64, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[oid]; !ok {
		return 0, nil
	}
	delete(m.docs, oid)
	return 1, nil
}

// put stores doc as-is, for test setup.
func (m *memStore[T, P]) put(doc *T) primitive.ObjectID {
	id, _ := m.Insert(context.Background(), doc)
	return id
}

// peek returns the stored document without copying.
func (m *memStore[T, P]) peek(id primitive.ObjectID) *T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[id]
}

func (m *memStore[T, P]) each(fn func(*T)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.ids {
		if doc, ok := m.docs[id]; ok {
			fn(doc)
		}
	}
}

// ─── Exams ─────────────────────────────────────────────────────────────────

type fakeExams struct {
	*memStore[model.Exam, *model.Exam]
}

func newFakeExams() *fakeExams {
	return &fakeExams{newMemStore[model.Exam, *model.Exam]()}
}

func (f *fakeExams) FindBySlug(_ context.Context, slug string) (*model.Exam, error) {
	var found *model.Exam
	f.each(func(e *model.Exam) {
		if found == nil && e.Slug == slug {
			cp := *e
			found = &cp
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (f *fakeExams) ListUpcoming(_ context.Context, now time.Time, limit int64) ([]model.Exam, error) {
	out := []model.Exam{}
	f.each(func(e *model.Exam) {
		if e.Active && e.ExamDate.After(now) {
			out = append(out, *e)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ExamDate.Before(out[j].ExamDate) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ─── Registrations ─────────────────────────────────────────────────────────

type fakeRegistrations struct {
	*memStore[model.ExamRegistration, *model.ExamRegistration]
}

func newFakeRegistrations() *fakeRegistrations {
	return &fakeRegistrations{newMemStore[model.ExamRegistration, *model.ExamRegistration]()}
}

func (f *fakeRegistrations) find(match func(*model.ExamRegistration) bool) (*model.ExamRegistration, error) {
	var found *model.ExamRegistration
	f.each(func(r *model.ExamRegistration) {
		if found == nil && match(r) {
			cp := *r
			found = &cp
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (f *fakeRegistrations) FindByNumber(_ context.Context, number string) (*model.ExamRegistration, error) {
	return f.find(func(r *model.ExamRegistration) bool { return r.RegistrationNumber == number })
}

func (f *fakeRegistrations) FindByNumberAndEmail(_ context.Context, number, email string) (*model.ExamRegistration, error) {
	return f.find(func(r *model.ExamRegistration) bool {
		return r.RegistrationNumber == number && r.Email == email
	})
}

func (f *fakeRegistrations) update(id primitive.ObjectID, fn func(*model.ExamRegistration)) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.docs[id]
	if !ok {
		return 0
	}
	fn(r)
	return 1
}

func (f *fakeRegistrations) SetOrderID(_ context.Context, id primitive.ObjectID, orderID string, now time.Time) error {
	if f.update(id, func(r *model.ExamRegistration) { r.RazorpayOrderID = orderID; r.UpdatedAt = now }) == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (f *fakeRegistrations) MarkPaid(_ context.Context, id primitive.ObjectID, orderID, paymentID string, at time.Time) (int64, error) {
	return f.update(id, func(r *model.ExamRegistration) {
		r.PaymentStatus = model.PaymentCompleted
		r.RazorpayOrderID = orderID
		r.RazorpayPaymentID = paymentID
		r.PaymentVerifiedAt = &at
		r.UpdatedAt = at
	}), nil
}

func (f *fakeRegistrations) SetPaymentStatus(_ context.Context, id primitive.ObjectID, status model.PaymentStatus, now time.Time) (int64, error) {
	return f.update(id, func(r *model.ExamRegistration) {
		r.PaymentStatus = status
		r.UpdatedAt = now
	}), nil
}

func (f *fakeRegistrations) SetCRMContactID(_ context.Context, id primitive.ObjectID, contactID string) error {
	f.update(id, func(r *model.ExamRegistration) { r.CRMContactID = contactID })
	return nil
}

func (f *fakeRegistrations) ListAll(_ context.Context, flt model.RegistrationFilter) ([]model.ExamRegistration, error) {
	out := []model.ExamRegistration{}
	f.each(func(r *model.ExamRegistration) {
		if flt.PaymentStatus != "" && r.PaymentStatus != flt.PaymentStatus {
			return
		}
		if flt.ExamID != "" && r.ExamID.Hex() != flt.ExamID {
			return
		}
		out = append(out, *r)
	})
	return out, nil
}

func (f *fakeRegistrations) Search(ctx context.Context, flt model.RegistrationFilter, page, perPage int) ([]model.ExamRegistration, int64, error) {
	all, _ := f.ListAll(ctx, flt)
	return all, int64(len(all)), nil
}

func (f *fakeRegistrations) ListStalePending(_ context.Context, before time.Time) ([]model.ExamRegistration, error) {
	out := []model.ExamRegistration{}
	f.each(func(r *model.ExamRegistration) {
		if r.PaymentStatus == model.PaymentPending && r.RazorpayOrderID != "" && r.CreatedAt.Before(before) {
			out = append(out, *r)
		}
	})
	return out, nil
}

// ─── Grievances ────────────────────────────────────────────────────────────

type fakeGrievances struct {
	*memStore[model.Grievance, *model.Grievance]
}

func newFakeGrievances() *fakeGrievances {
	return &fakeGrievances{newMemStore[model.Grievance, *model.Grievance]()}
}

func (f *fakeGrievances) UpdateReview(_ context.Context, id primitive.ObjectID, status *model.GrievanceStatus, reply *string, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.docs[id]
	if !ok {
		return 0, nil
	}
	if status != nil {
		g.Status = *status
	}
	if reply != nil {
		g.AdminReply = *reply
	}
	g.UpdatedAt = now
	return 1, nil
}

func (f *fakeGrievances) Search(_ context.Context, flt model.GrievanceFilter) ([]model.Grievance, error) {
	out := []model.Grievance{}
	f.each(func(g *model.Grievance) {
		if flt.Status != "" && g.Status != flt.Status {
			return
		}
		out = append(out, *g)
	})
	return out, nil
}

// ─── Results ───────────────────────────────────────────────────────────────

type fakeResults struct {
	*memStore[model.ExamResult, *model.ExamResult]
}

func newFakeResults() *fakeResults {
	return &fakeResults{newMemStore[model.ExamResult, *model.ExamResult]()}
}

func (f *fakeResults) FindForCandidate(_ context.Context, examID *primitive.ObjectID, number, email string) (*model.ExamResult, error) {
	var found *model.ExamResult
	f.each(func(r *model.ExamResult) {
		if found != nil {
			return
		}
		if examID != nil && r.ExamID != *examID {
			return
		}
		if (number != "" && r.RegistrationNumber == number) || (number == "" && email != "" && r.Email == email) {
			cp := *r
			found = &cp
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

// ─── Admin users ───────────────────────────────────────────────────────────

type fakeAdmins struct {
	*memStore[model.AdminUser, *model.AdminUser]
}

func newFakeAdmins() *fakeAdmins {
	return &fakeAdmins{newMemStore[model.AdminUser, *model.AdminUser]()}
}

func (f *fakeAdmins) FindByEmail(_ context.Context, email string) (*model.AdminUser, error) {
	var found *model.AdminUser
	f.each(func(u *model.AdminUser) {
		if found == nil && u.Email == email {
			cp := *u
			found = &cp
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (f *fakeAdmins) TouchLastLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.docs[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

// ─── Side effects ──────────────────────────────────────────────────────────

type fakeQueue struct {
	mu   sync.Mutex
	jobs []notify.Notification
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, n notify.Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, n)
	return nil
}

func (q *fakeQueue) kinds() []notify.Kind {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]notify.Kind, len(q.jobs))
	for i, j := range q.jobs {
		out[i] = j.Kind
	}
	return out
}

type fakeFeed struct {
	events []model.ActivityEvent
}

func (f *fakeFeed) Publish(_ context.Context, ev model.ActivityEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeCRM struct {
	contacts []crm.Contact
	deals    []crm.Deal
	err      error
}

func (c *fakeCRM) UpsertContact(_ context.Context, ct crm.Contact) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.contacts = append(c.contacts, ct)
	return "crm_contact_test", nil
}

func (c *fakeCRM) CreateDeal(_ context.Context, d crm.Deal) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.deals = append(c.deals, d)
	return "crm_deal_test", nil
}

type fakeGateway struct {
	orders   []payment.OrderRequest
	payments map[string][]payment.Payment
	err      error
}

func (g *fakeGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (*payment.Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.orders = append(g.orders, req)
	return &payment.Order{ID: "order_test_1", Amount: req.AmountMinor, Currency: req.Currency}, nil
}

func (g *fakeGateway) OrderPayments(_ context.Context, orderID string) ([]payment.Payment, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.payments[orderID], nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
