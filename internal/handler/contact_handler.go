package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/response"
	"github.com/brightpath/institute-api/internal/service"
	"github.com/brightpath/institute-api/internal/validator"
)

// ContactHandler handles the public contact form. Admin CRUD goes through
// the embedded ContentHandler.
type ContactHandler struct {
	*ContentHandler[model.Contact, *model.Contact]
	contactService *service.ContactService
	log            zerolog.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *service.ContactService, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		ContentHandler: NewContentHandler(contactService.ContentService, "contacts", "contact", log).
			WithFilter(ContactStatusFilter),
		contactService: contactService,
		log:            log.With().Str("component", "contact_handler").Logger(),
	}
}

// SubmitContact godoc
// POST /api/contacts
// Stores an enquiry with status "new" and alerts the office.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req model.Contact
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	contact, err := h.contactService.Submit(c.Request.Context(), &req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": contact.ID})
}
