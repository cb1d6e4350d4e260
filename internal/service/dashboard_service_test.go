package service

import (
	"context"
	"testing"
	"time"

	"github.com/brightpath/institute-api/internal/model"
)

type staticCounts map[string]int64

func (s staticCounts) CountByPaymentStatus(context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}

func (s staticCounts) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.CountByPaymentStatus(ctx)
}

type staticContacts int64

func (n staticContacts) CountNew(context.Context) (int64, error) { return int64(n), nil }

func TestDashboardData(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	exams := newFakeExams()
	for i := 1; i <= 7; i++ {
		e := &model.Exam{Title: "Exam", ExamDate: now.AddDate(0, 0, i)}
		e.Active = true
		exams.put(e)
	}
	past := &model.Exam{Title: "Past", ExamDate: now.AddDate(0, 0, -1)}
	past.Active = true
	exams.put(past)

	svc := NewDashboardService(
		staticCounts{"pending": 3, "completed": 10},
		staticCounts{"pending": 1},
		staticContacts(4),
		exams,
	)
	svc.now = fixedClock(now)

	data, err := svc.GetDashboardData(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if data.RegistrationsByStatus["completed"] != 10 || data.RegistrationsByStatus["failed"] != 0 {
		t.Errorf("registrations = %v", data.RegistrationsByStatus)
	}
	if _, ok := data.RegistrationsByStatus["pending_cash"]; !ok {
		t.Error("zero statuses should be present")
	}
	if data.GrievancesByStatus["pending"] != 1 || len(data.GrievancesByStatus) != 3 {
		t.Errorf("grievances = %v", data.GrievancesByStatus)
	}
	if data.NewContacts != 4 {
		t.Errorf("new contacts = %d", data.NewContacts)
	}
	if len(data.UpcomingExams) != 5 {
		t.Errorf("upcoming = %d, want 5", len(data.UpcomingExams))
	}
}
