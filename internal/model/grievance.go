package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// GrievanceStatus is the review state of a grievance.
type GrievanceStatus string

const (
	GrievancePending     GrievanceStatus = "pending"
	GrievanceUnderReview GrievanceStatus = "under_review"
	GrievanceResolved    GrievanceStatus = "resolved"
)

// Valid reports whether s is a known grievance status.
func (s GrievanceStatus) Valid() bool {
	switch s {
	case GrievancePending, GrievanceUnderReview, GrievanceResolved:
		return true
	}
	return false
}

// Grievance is a complaint filed against a registration.
type Grievance struct {
	Base `bson:",inline"`

	ExamID             primitive.ObjectID `bson:"examId" json:"examId"`
	RegistrationID     primitive.ObjectID `bson:"registrationId" json:"registrationId"`
	RegistrationNumber string             `bson:"registrationNumber" json:"registrationNumber"`
	Name               string             `bson:"name" json:"name"`
	Email              string             `bson:"email" json:"email"`
	Subject            string             `bson:"subject" json:"subject"`
	Description        string             `bson:"description" json:"description"`
	AttachmentURL      string             `bson:"attachmentUrl,omitempty" json:"attachmentUrl,omitempty"`
	Status             GrievanceStatus    `bson:"status" json:"status"`
	AdminReply         string             `bson:"adminReply,omitempty" json:"adminReply,omitempty"`
}

// FileGrievanceRequest is the public grievance payload.
type FileGrievanceRequest struct {
	RegistrationNumber string `form:"registrationNumber" json:"registrationNumber" binding:"required"`
	Email              string `form:"email" json:"email" binding:"required,email"`
	Subject            string `form:"subject" json:"subject" binding:"max=200"`
	Description        string `form:"description" json:"description" binding:"required,max=5000"`
}

// UpdateGrievanceRequest carries the independently optional admin fields.
type UpdateGrievanceRequest struct {
	Status     *GrievanceStatus `json:"status"`
	AdminReply *string          `json:"adminReply"`
}

// GrievanceFilter narrows the admin grievance listing.
type GrievanceFilter struct {
	Status GrievanceStatus
	ExamID string
}
