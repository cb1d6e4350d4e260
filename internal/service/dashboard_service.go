package service

import (
	"context"
	"fmt"
	"time"

	"github.com/brightpath/institute-api/internal/model"
)

// DashboardCounter is the aggregate source for the admin dashboard.
type DashboardCounter interface {
	CountByPaymentStatus(ctx context.Context) (map[string]int64, error)
}

// GrievanceCounter groups grievances by status.
type GrievanceCounter interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ContactCounter counts unhandled contact submissions.
type ContactCounter interface {
	CountNew(ctx context.Context) (int64, error)
}

// DashboardData consolidates all metrics for the admin dashboard.
type DashboardData struct {
	RegistrationsByStatus map[string]int64 `json:"registrationsByStatus"`
	GrievancesByStatus    map[string]int64 `json:"grievancesByStatus"`
	NewContacts           int64            `json:"newContacts"`
	UpcomingExams         []model.Exam     `json:"upcomingExams"`
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	registrations DashboardCounter
	grievances    GrievanceCounter
	contacts      ContactCounter
	exams         ExamFinder
	now           func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(registrations DashboardCounter, grievances GrievanceCounter, contacts ContactCounter, exams ExamFinder) *DashboardService {
	return &DashboardService{
		registrations: registrations,
		grievances:    grievances,
		contacts:      contacts,
		exams:         exams,
		now:           time.Now,
	}
}

// GetDashboardData gathers the dashboard metrics sequentially.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	regs, err := s.registrations.CountByPaymentStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}

	grievances, err := s.grievances.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count grievances: %w", err)
	}

	contacts, err := s.contacts.CountNew(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}

	upcoming, err := s.exams.ListUpcoming(ctx, s.now().UTC(), 5)
	if err != nil {
		return nil, fmt.Errorf("list upcoming exams: %w", err)
	}

	// Every known status appears, even with zero documents.
	if regs == nil {
		regs = map[string]int64{}
	}
	if grievances == nil {
		grievances = map[string]int64{}
	}
	for _, st := range []model.PaymentStatus{model.PaymentPending, model.PaymentPendingCash, model.PaymentCompleted, model.PaymentFailed} {
		if _, ok := regs[string(st)]; !ok {
			regs[string(st)] = 0
		}
	}
	for _, st := range []model.GrievanceStatus{model.GrievancePending, model.GrievanceUnderReview, model.GrievanceResolved} {
		if _, ok := grievances[string(st)]; !ok {
			grievances[string(st)] = 0
		}
	}

	return &DashboardData{
		RegistrationsByStatus: regs,
		GrievancesByStatus:    grievances,
		NewContacts:           contacts,
		UpcomingExams:         upcoming,
	}, nil
}
