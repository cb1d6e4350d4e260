package repository

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightpath/institute-api/internal/model"
)

// Collection names.
const (
	CollExams          = "exams"
	CollRegistrations  = "examregistrations"
	CollGrievances     = "grievances"
	CollResults        = "examresults"
	CollCourses        = "courses"
	CollFaculty        = "faculties"
	CollFacilities     = "facilities"
	CollTestimonials   = "testimonials"
	CollActivities     = "activities"
	CollVideos         = "videos"
	CollFAQs           = "faqs"
	CollNotifications  = "notifications"
	CollEmailTemplates = "emailtemplates"
	CollContacts       = "contacts"
	CollAdminUsers     = "adminusers"
	CollSettings       = "settings"
)

// ContentStores bundles the stores of the plain content collections.
type ContentStores struct {
	Courses        *Store[model.Course]
	Faculty        *Store[model.Faculty]
	Facilities     *Store[model.Facility]
	Testimonials   *Store[model.Testimonial]
	Activities     *Store[model.Activity]
	Videos         *Store[model.Video]
	FAQs           *Store[model.FAQ]
	Notifications  *Store[model.Notification]
	EmailTemplates *EmailTemplateRepository
	Contacts       *ContactRepository
}

// NewContentStores creates the content stores on db.
func NewContentStores(db *mongo.Database) *ContentStores {
	return &ContentStores{
		Courses:        NewStore[model.Course](db, CollCourses, SortByOrder),
		Faculty:        NewStore[model.Faculty](db, CollFaculty, SortByOrder),
		Facilities:     NewStore[model.Facility](db, CollFacilities, SortByOrder),
		Testimonials:   NewStore[model.Testimonial](db, CollTestimonials, SortByOrder),
		Activities:     NewStore[model.Activity](db, CollActivities, SortByOrder),
		Videos:         NewStore[model.Video](db, CollVideos, SortByOrder),
		FAQs:           NewStore[model.FAQ](db, CollFAQs, SortByOrder),
		Notifications:  NewStore[model.Notification](db, CollNotifications, SortByOrder),
		EmailTemplates: NewEmailTemplateRepository(db),
		Contacts:       NewContactRepository(db),
	}
}
