package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
	"github.com/brightpath/institute-api/internal/response"
	"github.com/brightpath/institute-api/internal/service"
	"github.com/brightpath/institute-api/internal/validator"
)

// maxPatchBytes bounds admin update bodies.
const maxPatchBytes = 1 << 20

// ListFilter turns query parameters into a store filter. A nil map means no
// constraint.
type ListFilter func(c *gin.Context) (bson.M, error)

// ContentHandler serves the list/get/create/update/delete routes of one
// content collection, public and admin.
type ContentHandler[T any, P model.DocumentPtr[T]] struct {
	svc      *service.ContentService[T, P]
	plural   string
	singular string
	filter   ListFilter
	log      zerolog.Logger
}

// NewContentHandler creates a ContentHandler. plural and singular are the
// keys the documents are returned under.
func NewContentHandler[T any, P model.DocumentPtr[T]](
	svc *service.ContentService[T, P],
	plural, singular string,
	log zerolog.Logger,
) *ContentHandler[T, P] {
	return &ContentHandler[T, P]{
		svc:      svc,
		plural:   plural,
		singular: singular,
		log:      log.With().Str("component", plural+"_handler").Logger(),
	}
}

// WithFilter sets the query filter applied to both listings.
func (h *ContentHandler[T, P]) WithFilter(f ListFilter) *ContentHandler[T, P] {
	h.filter = f
	return h
}

// ListPublic godoc
// GET /api/{entity}
// Lists active documents only.
func (h *ContentHandler[T, P]) ListPublic(c *gin.Context) { h.list(c, true) }

// ListAdmin godoc
// GET /api/admin/{entity}
// Lists every document, hidden ones included.
func (h *ContentHandler[T, P]) ListAdmin(c *gin.Context) { h.list(c, false) }

func (h *ContentHandler[T, P]) list(c *gin.Context, activeOnly bool) {
	q := repository.ListQuery{ActiveOnly: activeOnly}
	if h.filter != nil {
		f, err := h.filter(c)
		if err != nil {
			failWithError(c, h.log, err)
			return
		}
		q.Filter = f
	}

	items, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	if items == nil {
		items = []T{}
	}

	response.Success(c, http.StatusOK, gin.H{h.plural: items})
}

// GetPublic godoc
// GET /api/{entity}/:id
// Inactive documents are reported as not found.
func (h *ContentHandler[T, P]) GetPublic(c *gin.Context) { h.get(c, true) }

// GetAdmin godoc
// GET /api/admin/{entity}/:id
func (h *ContentHandler[T, P]) GetAdmin(c *gin.Context) { h.get(c, false) }

func (h *ContentHandler[T, P]) get(c *gin.Context, publicOnly bool) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"), publicOnly)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{h.singular: doc})
}

// Create godoc
// POST /api/admin/{entity}
// Creates a document. active defaults to true when the body omits it.
func (h *ContentHandler[T, P]) Create(c *gin.Context) {
	doc := h.svc.New()
	if fields := validator.Bind(c, doc); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), doc)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{h.singular: created})
}

// Update godoc
// PUT /api/admin/{entity}/:id
// Merges the body onto the stored document; absent fields keep their value.
func (h *ContentHandler[T, P]) Update(c *gin.Context) {
	patch, ok := readPatch(c)
	if !ok {
		return
	}

	modified, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modifiedCount": modified})
}

// Delete godoc
// DELETE /api/admin/{entity}/:id
func (h *ContentHandler[T, P]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// readPatch reads a bounded JSON body. On failure the response is already
// written.
func readPatch(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPatchBytes+1))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return nil, false
	}
	if len(body) == 0 || len(body) > maxPatchBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return nil, false
	}
	return body, true
}

// FAQFilter narrows FAQs by ?examId= and ?category=.
func FAQFilter(c *gin.Context) (bson.M, error) {
	filter := bson.M{}
	if examID := c.Query("examId"); examID != "" {
		oid, err := repository.ParseID(examID)
		if err != nil {
			return nil, err
		}
		filter["examId"] = oid
	}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	return filter, nil
}

// ExamIDFilter narrows a listing by ?examId=.
func ExamIDFilter(c *gin.Context) (bson.M, error) {
	examID := c.Query("examId")
	if examID == "" {
		return nil, nil
	}
	oid, err := repository.ParseID(examID)
	if err != nil {
		return nil, err
	}
	return bson.M{"examId": oid}, nil
}

// ContactStatusFilter narrows contacts by ?status=.
func ContactStatusFilter(c *gin.Context) (bson.M, error) {
	if status := c.Query("status"); status != "" {
		return bson.M{"status": status}, nil
	}
	return nil, nil
}
