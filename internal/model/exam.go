package model

import "time"

// Exam is an exam offered for public registration.
type Exam struct {
	Base       `bson:",inline"`
	Visibility `bson:",inline"`

	Title                 string    `bson:"title" json:"title" binding:"required,max=200"`
	Slug                  string    `bson:"slug" json:"slug"`
	Description           string    `bson:"description" json:"description"`
	RegistrationStartDate time.Time `bson:"registrationStartDate" json:"registrationStartDate"`
	RegistrationEndDate   time.Time `bson:"registrationEndDate" json:"registrationEndDate"`
	ExamDate              time.Time `bson:"examDate" json:"examDate" binding:"required"`
	ExamFee               float64   `bson:"examFee" json:"examFee" binding:"gte=0"`
	Centers               []string  `bson:"centers" json:"centers"`
	Languages             []string  `bson:"languages" json:"languages"`
	RegistrationOpen      bool      `bson:"registrationOpen" json:"registrationOpen"`
	ShowResults           bool      `bson:"showResults" json:"showResults"`
}

func (e *Exam) SlugSource() string { return e.Title }
func (e *Exam) SetSlug(s string)   { e.Slug = s }
