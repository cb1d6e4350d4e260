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

// ResultHandler handles the public result lookup. Admin CRUD goes through the
// embedded ContentHandler.
type ResultHandler struct {
	*ContentHandler[model.ExamResult, *model.ExamResult]
	resultService *service.ResultService
	log           zerolog.Logger
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService, log zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		ContentHandler: NewContentHandler(resultService.ContentService, "results", "result", log).
			WithFilter(ExamIDFilter),
		resultService: resultService,
		log:           log.With().Str("component", "result_handler").Logger(),
	}
}

// LookupResult godoc
// GET /api/results?examId=&registrationNumber=|email=
// Returns a candidate's result once the exam has results published.
func (h *ResultHandler) LookupResult(c *gin.Context) {
	var q model.ResultLookup
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.resultService.Lookup(c.Request.Context(), q)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}
