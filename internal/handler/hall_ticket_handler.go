package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/response"
	"github.com/brightpath/institute-api/internal/service"
)

// HallTicketHandler serves admission tickets to paid applicants.
type HallTicketHandler struct {
	hallTicketService *service.HallTicketService
	log               zerolog.Logger
}

// NewHallTicketHandler creates a new HallTicketHandler.
func NewHallTicketHandler(hallTicketService *service.HallTicketService, log zerolog.Logger) *HallTicketHandler {
	return &HallTicketHandler{
		hallTicketService: hallTicketService,
		log:               log.With().Str("component", "hall_ticket_handler").Logger(),
	}
}

// GetHallTicket godoc
// GET /api/hall-ticket?registrationNumber=
// Returns the registration merged with its exam and a QR code.
func (h *HallTicketHandler) GetHallTicket(c *gin.Context) {
	number, ok := registrationNumberParam(c)
	if !ok {
		return
	}

	ticket, err := h.hallTicketService.Issue(c.Request.Context(), number)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hallTicket": ticket})
}

// DownloadHallTicket godoc
// GET /api/hall-ticket/pdf?registrationNumber=
// Renders the same ticket as a PDF. Nothing is stored.
func (h *HallTicketHandler) DownloadHallTicket(c *gin.Context) {
	number, ok := registrationNumberParam(c)
	if !ok {
		return
	}

	ticket, err := h.hallTicketService.Issue(c.Request.Context(), number)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	pdf, err := h.hallTicketService.RenderPDF(ticket)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="hall-ticket-`+ticket.RegistrationNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func registrationNumberParam(c *gin.Context) (string, bool) {
	number := strings.TrimSpace(c.Query("registrationNumber"))
	if number == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"registrationNumber": "registrationNumber is required",
		})
		return "", false
	}
	return number, true
}
