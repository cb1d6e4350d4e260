package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Course is a programme offered by the institute.
type Course struct {
	Base       `bson:",inline"`
	Visibility `bson:",inline"`

	Title       string   `bson:"title" json:"title" binding:"required,max=200"`
	Slug        string   `bson:"slug" json:"slug"`
	Description string   `bson:"description" json:"description"`
	Duration    string   `bson:"duration" json:"duration"`
	Fee         float64  `bson:"fee" json:"fee" binding:"gte=0"`
	ImageURL    string   `bson:"imageUrl" json:"imageUrl"`
	Highlights  []string `bson:"highlights" json:"highlights"`
}

func (c *Course) SlugSource() string { return c.Title }
func (c *Course) SetSlug(s string)   { c.Slug = s }

type Faculty struct {
	Base       `bson:",inline"`
	Visibility `bson:",inline"`

	Name          string `bson:"name" json:"name" binding:"required,max=120"`
	Designation   string `bson:"designation" json:"designation"`
	Subject       string `bson:"subject" json:"subject"`
	Qualification string `bson:"qualification" json:"qualification"`
	Experience    string `bson:"experience" json:"experience"`
	Bio           string `bson:"bio" json:"bio"`
	PhotoURL      string `bson:"photoUrl" json:"photoUrl"`
}

type Facility struct {
	Base       `bson:",inline"`
	Visibility `bson:",inline"`

	Title       string `bson:"title" json:"title" binding:"required,max=200"`
	Description string `bson:"description" json:"description"`
	Icon        string `bson:"icon" json:"icon"`
	ImageURL    string `bson:"imageUrl" json:"imageUrl"`
}

type Testimonial struct {
	Base       `bson:",inline"`
	Visibility `bson:",inline"`

	Name     string `bson:"name" json:"name" binding:"required,max=120"`
	Course   string `bson:"course" json:"course"`
	Message  string `bson:"message" json:"message" binding:"required"`
	Rating   int    `bson:"rating" json:"rating" binding:"omitempty,min=1,max=5"`
	PhotoURL string `bson:"photoUrl" json:"photoUrl"`
}

// Activity is a past or upcoming institute event.
type Activity struct {
	Base       `bson:",inline"`
	Visibility `bson:",inline"`

	Title       string   `bson:"title" json:"title" binding:"required,max=200"`
	Description string   `bson:"description" json:"description"`
	Date        string   `bson:"date" json:"date"`
	Images      []string `bson:"images" json:"images"`
}

type Video struct {
	Base       `bson:",inline"`
	Visibility `bson:",inline"`

	Title     string `bson:"title" json:"title" binding:"required,max=200"`
	URL       string `bson:"url" json:"url" binding:"required,url"`
	Thumbnail string `bson:"thumbnail" json:"thumbnail"`
	Category  string `bson:"category" json:"category"`
}

// FAQ may be scoped to one exam or to a free-form category.
type FAQ struct {
	Base       `bson:",inline"`
	Visibility `bson:",inline"`

	Question string              `bson:"question" json:"question" binding:"required"`
	Answer   string              `bson:"answer" json:"answer" binding:"required"`
	ExamID   *primitive.ObjectID `bson:"examId,omitempty" json:"examId,omitempty"`
	Category string              `bson:"category" json:"category"`
}

// Notification is a site announcement shown in the public ticker.
type Notification struct {
	Base       `bson:",inline"`
	Visibility `bson:",inline"`

	Title   string `bson:"title" json:"title" binding:"required,max=200"`
	Message string `bson:"message" json:"message"`
	Link    string `bson:"link" json:"link"`
	IsNew   bool   `bson:"isNew" json:"isNew"`
}

// EmailTemplate overrides the built-in body of one notification kind.
// Subject and Body use Go template placeholders; Body is markdown.
type EmailTemplate struct {
	Base       `bson:",inline"`
	Visibility `bson:",inline"`

	Key     string `bson:"key" json:"key" binding:"required,max=64"`
	Name    string `bson:"name" json:"name"`
	Subject string `bson:"subject" json:"subject" binding:"required"`
	Body    string `bson:"body" json:"body" binding:"required"`
}
