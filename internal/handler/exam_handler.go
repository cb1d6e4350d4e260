package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/response"
	"github.com/brightpath/institute-api/internal/service"
)

// ExamHandler handles exam endpoints. Admin CRUD goes through the embedded
// ContentHandler.
type ExamHandler struct {
	*ContentHandler[model.Exam, *model.Exam]
	examService *service.ExamService
	log         zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		ContentHandler: NewContentHandler(examService.ContentService, "exams", "exam", log),
		examService:    examService,
		log:            log.With().Str("component", "exam_handler").Logger(),
	}
}

// GetExam godoc
// GET /api/exams/:idOrSlug
// Resolves an active exam by id, falling back to its slug.
func (h *ExamHandler) GetExam(c *gin.Context) {
	exam, err := h.examService.GetPublic(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}
