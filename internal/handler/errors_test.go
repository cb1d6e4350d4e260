package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/brightpath/institute-api/internal/logger"
	"github.com/brightpath/institute-api/internal/payment"
	"github.com/brightpath/institute-api/internal/repository"
	"github.com/brightpath/institute-api/internal/service"
)

func TestFailWithError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid id", repository.ErrInvalidID, http.StatusBadRequest, "INVALID_ID"},
		{"wrapped not found", fmt.Errorf("load: %w", repository.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"exam before generic", service.ErrExamNotFound, http.StatusNotFound, "EXAM_NOT_FOUND"},
		{"bad signature", service.ErrSignatureInvalid, http.StatusBadRequest, "PAYMENT_SIGNATURE_INVALID"},
		{"gateway", fmt.Errorf("%w: timeout", payment.ErrGateway), http.StatusInternalServerError, "PAYMENT_GATEWAY_ERROR"},
		{"order mismatch", service.ErrOrderMismatch, http.StatusBadRequest, "PAYMENT_ORDER_MISMATCH"},
		{"hall ticket", service.ErrHallTicketNotAvailable, http.StatusBadRequest, "HALL_TICKET_NOT_AVAILABLE"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"self delete", service.ErrCannotDeleteSelf, http.StatusBadRequest, "CANNOT_DELETE_SELF"},
		{"upload type", service.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"unmapped", errors.New("mongo: connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { failWithError(c, logger.Nop(), tt.err) })

			w, env := do(r, http.MethodGet, "/x", "")
			if w.Code != tt.status || errCode(env) != tt.code {
				t.Errorf("got %d %s, want %d %s", w.Code, errCode(env), tt.status, tt.code)
			}
		})
	}
}
