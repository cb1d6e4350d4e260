package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/payment"
	"github.com/brightpath/institute-api/internal/repository"
	"github.com/brightpath/institute-api/internal/response"
	"github.com/brightpath/institute-api/internal/service"
)

// errorMapping ties a service or store sentinel to its HTTP outcome.
type errorMapping struct {
	err    error
	status int
	code   response.ErrCode
}

// errorTable is checked in order, so specific sentinels come before generic ones.
var errorTable = []errorMapping{
	// ─── Lookups ───────────────────────────────────────────────────────
	{service.ErrExamNotFound, http.StatusNotFound, response.ErrExamNotFound},
	{service.ErrRegistrationNotFound, http.StatusNotFound, response.ErrRegistrationNotFound},
	{service.ErrResultNotFound, http.StatusNotFound, response.ErrResultNotFound},
	{service.ErrGrievanceNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrAdminNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrSettingNotFound, http.StatusNotFound, response.ErrNotFound},
	{repository.ErrInvalidID, http.StatusBadRequest, response.ErrInvalidID},
	{repository.ErrNotFound, http.StatusNotFound, response.ErrNotFound},

	// ─── Payloads ──────────────────────────────────────────────────────
	{service.ErrInvalidPatch, http.StatusBadRequest, response.ErrInvalidPayload},
	{service.ErrInvalidPaymentStatus, http.StatusBadRequest, response.ErrInvalidStatus},
	{service.ErrInvalidGrievanceStatus, http.StatusBadRequest, response.ErrInvalidStatus},
	{service.ErrInvalidRole, http.StatusBadRequest, response.ErrValidation},
	{service.ErrInvalidAmount, http.StatusBadRequest, response.ErrValidation},
	{service.ErrInvalidDays, http.StatusBadRequest, response.ErrValidation},
	{service.ErrLookupKeyRequired, http.StatusBadRequest, response.ErrValidation},

	// ─── Admin accounts ────────────────────────────────────────────────
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrEmailExists, http.StatusBadRequest, response.ErrEmailExists},
	{service.ErrCannotDeleteSuperAdmin, http.StatusBadRequest, response.ErrCannotDeleteSuperAdmin},
	{service.ErrCannotDeleteSelf, http.StatusBadRequest, response.ErrCannotDeleteSelf},

	// ─── Payments, tickets, results ────────────────────────────────────
	{service.ErrSignatureInvalid, http.StatusBadRequest, response.ErrPaymentSignatureInvalid},
	{service.ErrOrderMismatch, http.StatusBadRequest, response.ErrPaymentOrderMismatch},
	{payment.ErrGateway, http.StatusInternalServerError, response.ErrPaymentGateway},
	{service.ErrPaymentNotCompleted, http.StatusBadRequest, response.ErrPaymentNotCompleted},
	{service.ErrHallTicketNotAvailable, http.StatusBadRequest, response.ErrHallTicketNotAvailable},
	{service.ErrResultsNotPublished, http.StatusBadRequest, response.ErrResultsNotPublished},

	// ─── Uploads ───────────────────────────────────────────────────────
	{service.ErrUnsupportedFileType, http.StatusBadRequest, response.ErrUnsupportedFile},
	{service.ErrFileTooLarge, http.StatusBadRequest, response.ErrFileTooLarge},
}

// failWithError writes the envelope matching err. Anything unmapped is an
// upstream failure: logged here, reported to the client as INTERNAL_ERROR.
func failWithError(c *gin.Context, log zerolog.Logger, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Str("request_id", c.GetString(response.ContextKeyRequestID)).
		Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
