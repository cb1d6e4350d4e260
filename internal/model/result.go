package model

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResultStatus is the outcome recorded for a candidate.
type ResultStatus string

const (
	ResultPass   ResultStatus = "pass"
	ResultFail   ResultStatus = "fail"
	ResultAbsent ResultStatus = "absent"
)

// ExamResult is a published score for one registration.
type ExamResult struct {
	Base `bson:",inline"`

	ExamID             primitive.ObjectID `bson:"examId" json:"examId" binding:"required"`
	RegistrationNumber string             `bson:"registrationNumber" json:"registrationNumber" binding:"required"`
	Name               string             `bson:"name" json:"name"`
	Email              string             `bson:"email" json:"email" binding:"omitempty,email"`
	Marks              float64            `bson:"marks" json:"marks" binding:"gte=0"`
	TotalMarks         float64            `bson:"totalMarks" json:"totalMarks" binding:"gte=0"`
	Percentage         float64            `bson:"percentage" json:"percentage"`
	Grade              string             `bson:"grade,omitempty" json:"grade,omitempty"`
	Rank               int                `bson:"rank,omitempty" json:"rank,omitempty"`
	Status             ResultStatus       `bson:"status" json:"status" binding:"omitempty,oneof=pass fail absent"`
}

// Normalize fills the percentage from marks when it is unset.
func (r *ExamResult) Normalize() {
	if r.Percentage == 0 && r.TotalMarks > 0 {
		r.Percentage = math.Round(r.Marks/r.TotalMarks*10000) / 100
	}
}

// ResetDerived drops the stored percentage when marks change and the patch
// does not carry its own, so Normalize recomputes it.
func (r *ExamResult) ResetDerived(patched map[string]bool) {
	if patched["percentage"] {
		return
	}
	if patched["marks"] || patched["totalMarks"] {
		r.Percentage = 0
	}
}

// ResultLookup is the public results query.
type ResultLookup struct {
	ExamID             string `form:"examId"`
	RegistrationNumber string `form:"registrationNumber"`
	Email              string `form:"email"`
}
