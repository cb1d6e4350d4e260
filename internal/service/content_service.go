package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
)

// ErrInvalidPatch is returned when an update body is not a JSON object of
// correctly typed fields.
var ErrInvalidPatch = errors.New("invalid patch")

// immutableFields are stripped from patches before they are merged.
var immutableFields = []string{"id", "_id", "createdAt", "updatedAt"}

// ContentService implements list/get/create/update/delete for one entity.
type ContentService[T any, P model.DocumentPtr[T]] struct {
	repo repository.Collection[T]
	now  func() time.Time
}

// NewContentService creates a ContentService over repo.
func NewContentService[T any, P model.DocumentPtr[T]](repo repository.Collection[T]) *ContentService[T, P] {
	return &ContentService[T, P]{repo: repo, now: time.Now}
}

// New returns an empty document with defaults applied, ready to bind into.
func (s *ContentService[T, P]) New() P {
	doc := P(new(T))
	if v, ok := any(doc).(model.Visible); ok {
		v.SetActive(true)
	}
	return doc
}

// List returns the documents matching q.
func (s *ContentService[T, P]) List(ctx context.Context, q repository.ListQuery) ([]T, error) {
	return s.repo.List(ctx, q)
}

// Get loads one document. Inactive documents are reported missing when
// publicOnly is set.
func (s *ContentService[T, P]) Get(ctx context.Context, id string, publicOnly bool) (P, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := P(doc)
	if publicOnly {
		if v, ok := any(p).(model.Visible); ok && !v.IsActive() {
			return nil, repository.ErrNotFound
		}
	}
	return p, nil
}

// Create stamps and stores doc.
func (s *ContentService[T, P]) Create(ctx context.Context, doc P) (P, error) {
	if sl, ok := any(doc).(model.Sluggable); ok {
		sl.SetSlug(model.Slugify(sl.SlugSource()))
	}
	if n, ok := any(doc).(model.Normalizer); ok {
		n.Normalize()
	}
	doc.Stamp(s.now().UTC())

	if _, err := s.repo.Insert(ctx, (*T)(doc)); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update merges a JSON patch onto the stored document. Only the fields
// present in the patch change. Returns the modified count.
func (s *ContentService[T, P]) Update(ctx context.Context, id string, patch []byte) (int64, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	p := P(doc)
	patched, err := mergePatch(p, patch)
	if err != nil {
		return 0, err
	}
	if d, ok := any(p).(model.Derived); ok {
		d.ResetDerived(patched)
	}
	if n, ok := any(p).(model.Normalizer); ok {
		n.Normalize()
	}
	p.Touch(s.now().UTC())

	return s.repo.Replace(ctx, p.GetID(), doc)
}

// Delete removes a document. Deleting nothing is ErrNotFound.
func (s *ContentService[T, P]) Delete(ctx context.Context, id string) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// mergePatch decodes patch onto dst, ignoring identity and audit fields.
// It returns the set of fields that were applied.
func mergePatch(dst any, patch []byte) (map[string]bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	for _, f := range immutableFields {
		delete(fields, f)
	}
	clean, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if err := json.Unmarshal(clean, dst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	patched := make(map[string]bool, len(fields))
	for f := range fields {
		patched[f] = true
	}
	return patched, nil
}
