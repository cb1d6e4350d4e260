package model

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus is the lifecycle state of a registration's fee.
type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentPendingCash PaymentStatus = "pending_cash"
	PaymentCompleted   PaymentStatus = "completed"
	PaymentFailed      PaymentStatus = "failed"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPendingCash, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// InitialPaymentStatus maps the applicant's chosen method to the starting status.
// Only gateway payments wait on the gateway; everything else is collected offline.
func InitialPaymentStatus(method string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "gateway", "online", "razorpay":
		return PaymentPending
	}
	return PaymentPendingCash
}

// NewRegistrationNumber builds "REG-<first 8 of exam id>-<unix millis>".
func NewRegistrationNumber(examID primitive.ObjectID, now time.Time) string {
	return fmt.Sprintf("REG-%s-%d", examID.Hex()[:8], now.UnixMilli())
}

// ExamRegistration is one applicant's registration for an exam.
type ExamRegistration struct {
	Base `bson:",inline"`

	ExamID             primitive.ObjectID `bson:"examId" json:"examId"`
	Name               string             `bson:"name" json:"name"`
	FatherName         string             `bson:"fatherName" json:"fatherName"`
	Email              string             `bson:"email" json:"email"`
	Mobile             string             `bson:"mobile" json:"mobile"`
	DateOfBirth        string             `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender             string             `bson:"gender" json:"gender"`
	Address            string             `bson:"address" json:"address"`
	City               string             `bson:"city" json:"city"`
	State              string             `bson:"state" json:"state"`
	Pincode            string             `bson:"pincode" json:"pincode"`
	Qualification      string             `bson:"qualification" json:"qualification"`
	Center             string             `bson:"center" json:"center"`
	Language           string             `bson:"language" json:"language"`
	PhotoURL           string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	PaymentMethod      string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus      PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	RegistrationNumber string             `bson:"registrationNumber" json:"registrationNumber"`
	RazorpayOrderID    string             `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID  string             `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	PaymentVerifiedAt  *time.Time         `bson:"paymentVerifiedAt,omitempty" json:"paymentVerifiedAt,omitempty"`
	CRMContactID       string             `bson:"crmContactId,omitempty" json:"crmContactId,omitempty"`
}

// CreateRegistrationRequest is the multipart/JSON payload of a public registration.
type CreateRegistrationRequest struct {
	ExamID        string `form:"examId" json:"examId" binding:"required"`
	Name          string `form:"name" json:"name" binding:"required,max=120"`
	FatherName    string `form:"fatherName" json:"fatherName" binding:"max=120"`
	Email         string `form:"email" json:"email" binding:"required,email"`
	Mobile        string `form:"mobile" json:"mobile" binding:"required,min=7,max=20"`
	DateOfBirth   string `form:"dateOfBirth" json:"dateOfBirth"`
	Gender        string `form:"gender" json:"gender"`
	Address       string `form:"address" json:"address"`
	City          string `form:"city" json:"city"`
	State         string `form:"state" json:"state"`
	Pincode       string `form:"pincode" json:"pincode"`
	Qualification string `form:"qualification" json:"qualification"`
	Center        string `form:"center" json:"center"`
	Language      string `form:"language" json:"language"`
	PaymentMethod string `form:"paymentMethod" json:"paymentMethod"`
}

// RegistrationFilter narrows the admin registration listing.
type RegistrationFilter struct {
	ExamID        string
	PaymentStatus PaymentStatus
	Search        string
}

// UpdatePaymentStatusRequest is the admin override payload.
type UpdatePaymentStatusRequest struct {
	Status PaymentStatus `json:"status" binding:"required"`
}
