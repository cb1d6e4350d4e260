package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base carries the identity and audit timestamps every stored document has.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (b *Base) GetID() primitive.ObjectID   { return b.ID }
func (b *Base) SetID(id primitive.ObjectID) { b.ID = id }

// Stamp resets identity and timestamps for a first insert.
func (b *Base) Stamp(now time.Time) {
	b.ID = primitive.NilObjectID
	b.CreatedAt = now
	b.UpdatedAt = now
}

// Touch stamps updatedAt.
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now
}

// Visibility is embedded by content that can be hidden from the public site.
type Visibility struct {
	Active bool `bson:"active" json:"active"`
	Order  int  `bson:"order" json:"order"`
}

func (v *Visibility) IsActive() bool        { return v.Active }
func (v *Visibility) SetActive(active bool) { v.Active = active }

// Document is implemented by every persisted entity through Base.
type Document interface {
	GetID() primitive.ObjectID
	SetID(primitive.ObjectID)
	Stamp(now time.Time)
	Touch(now time.Time)
}

// DocumentPtr constrains a type parameter to a pointer of T that is a Document.
type DocumentPtr[T any] interface {
	*T
	Document
}

// Visible is implemented by content carrying an active flag.
type Visible interface {
	IsActive() bool
	SetActive(bool)
}

// Sluggable is implemented by content whose slug is derived from its title.
type Sluggable interface {
	SlugSource() string
	SetSlug(string)
}

// Normalizer is implemented by documents with derived fields recomputed on write.
type Normalizer interface {
	Normalize()
}

// Derived is implemented by documents whose derived fields must be cleared
// when a patch changes their inputs without restating them.
type Derived interface {
	ResetDerived(patched map[string]bool)
}

// Slugify lowercases s and replaces runs of whitespace with a hyphen.
// Collisions are not checked.
func Slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
