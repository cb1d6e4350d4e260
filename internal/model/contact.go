package model

// ContactStatus tracks how far staff have handled an enquiry.
type ContactStatus string

const (
	ContactNew        ContactStatus = "new"
	ContactInProgress ContactStatus = "in_progress"
	ContactClosed     ContactStatus = "closed"
)

// Contact is an enquiry submitted from the public contact form.
type Contact struct {
	Base `bson:",inline"`

	Name    string        `bson:"name" json:"name" binding:"required,max=120"`
	Email   string        `bson:"email" json:"email" binding:"required,email"`
	Mobile  string        `bson:"mobile" json:"mobile" binding:"max=20"`
	Subject string        `bson:"subject" json:"subject" binding:"max=200"`
	Message string        `bson:"message" json:"message" binding:"required,max=5000"`
	Type    string        `bson:"type" json:"type"`
	Status  ContactStatus `bson:"status" json:"status"`
}
