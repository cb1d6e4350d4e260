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

// GrievanceHandler handles grievance filing and review.
type GrievanceHandler struct {
	grievanceService *service.GrievanceService
	mediaService     *service.MediaService
	log              zerolog.Logger
}

// NewGrievanceHandler creates a new GrievanceHandler.
func NewGrievanceHandler(
	grievanceService *service.GrievanceService,
	mediaService *service.MediaService,
	log zerolog.Logger,
) *GrievanceHandler {
	return &GrievanceHandler{
		grievanceService: grievanceService,
		mediaService:     mediaService,
		log:              log.With().Str("component", "grievance_handler").Logger(),
	}
}

// FileGrievance godoc
// POST /api/grievances
// Files a grievance against the registration matching registrationNumber and
// email. Accepts an optional "attachment" (image or PDF).
func (h *GrievanceHandler) FileGrievance(c *gin.Context) {
	var req model.FileGrievanceRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attachmentURL, ok := saveOptionalUpload(c, h.mediaService, h.log, "attachment", service.UploadDocument)
	if !ok {
		return
	}

	g, err := h.grievanceService.File(c.Request.Context(), req, attachmentURL)
	if err != nil {
		discardUpload(h.mediaService, h.log, attachmentURL)
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": g.ID})
}

// ListGrievances godoc
// GET /api/admin/grievances?status=&examId=
func (h *GrievanceHandler) ListGrievances(c *gin.Context) {
	filter := model.GrievanceFilter{
		Status: model.GrievanceStatus(c.Query("status")),
		ExamID: c.Query("examId"),
	}

	grievances, err := h.grievanceService.List(c.Request.Context(), filter)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	if grievances == nil {
		grievances = []model.Grievance{}
	}
	response.Success(c, http.StatusOK, gin.H{"grievances": grievances})
}

// GetGrievance godoc
// GET /api/admin/grievances/:id
func (h *GrievanceHandler) GetGrievance(c *gin.Context) {
	g, err := h.grievanceService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"grievance": g})
}

// UpdateGrievance godoc
// PUT /api/grievances/:id
// Sets status and/or adminReply. A status change emails the applicant once.
func (h *GrievanceHandler) UpdateGrievance(c *gin.Context) {
	var req model.UpdateGrievanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	modified, err := h.grievanceService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modifiedCount": modified})
}

// DeleteGrievance godoc
// DELETE /api/admin/grievances/:id
func (h *GrievanceHandler) DeleteGrievance(c *gin.Context) {
	if err := h.grievanceService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
