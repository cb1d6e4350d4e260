package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/response"
	"github.com/brightpath/institute-api/internal/service"
	"github.com/brightpath/institute-api/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RegistrationHandler handles exam registration endpoints.
type RegistrationHandler struct {
	registrationService *service.RegistrationService
	mediaService        *service.MediaService
	log                 zerolog.Logger
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(
	registrationService *service.RegistrationService,
	mediaService *service.MediaService,
	log zerolog.Logger,
) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		mediaService:        mediaService,
		log:                 log.With().Str("component", "registration_handler").Logger(),
	}
}

// CreateRegistration godoc
// POST /api/exam-registrations
// Registers an applicant from a multipart form with an optional "photo" file.
func (h *RegistrationHandler) CreateRegistration(c *gin.Context) {
	var req model.CreateRegistrationRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	photoURL, ok := saveOptionalUpload(c, h.mediaService, h.log, "photo", service.UploadImage)
	if !ok {
		return
	}

	reg, err := h.registrationService.Create(c.Request.Context(), req, photoURL)
	if err != nil {
		discardUpload(h.mediaService, h.log, photoURL)
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":                 reg.ID,
		"registrationNumber": reg.RegistrationNumber,
	})
}

// ListRegistrations godoc
// GET /api/admin/exam-registrations?examId=&paymentStatus=&search=&page=&per_page=
func (h *RegistrationHandler) ListRegistrations(c *gin.Context) {
	page, perPage := pageParams(c)
	filter := registrationFilter(c)

	regs, total, err := h.registrationService.Search(c.Request.Context(), filter, page, perPage)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	if regs == nil {
		regs = []model.ExamRegistration{}
	}

	response.SuccessWithPagination(c, http.StatusOK,
		gin.H{"registrations": regs},
		response.NewPagination(page, perPage, total),
	)
}

// GetRegistration godoc
// GET /api/admin/exam-registrations/:id
func (h *RegistrationHandler) GetRegistration(c *gin.Context) {
	reg, err := h.registrationService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"registration": reg})
}

// UpdateRegistration godoc
// PUT /api/exam-registrations/:id
// Merges an admin edit onto the registration and returns the modified count.
func (h *RegistrationHandler) UpdateRegistration(c *gin.Context) {
	patch, ok := readPatch(c)
	if !ok {
		return
	}

	modified, err := h.registrationService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modifiedCount": modified})
}

// UpdatePaymentStatus godoc
// PUT /api/admin/exam-registrations/:id/payment-status
// Manual override for cash collections and failed payments.
func (h *RegistrationHandler) UpdatePaymentStatus(c *gin.Context) {
	var req model.UpdatePaymentStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	modified, err := h.registrationService.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modifiedCount": modified})
}

// DeleteRegistration godoc
// DELETE /api/admin/exam-registrations/:id
func (h *RegistrationHandler) DeleteRegistration(c *gin.Context) {
	if err := h.registrationService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ExportRegistrations godoc
// GET /api/admin/exam-registrations/export?examId=&paymentStatus=&search=
// Streams the matching registrations as an XLSX workbook.
func (h *RegistrationHandler) ExportRegistrations(c *gin.Context) {
	filter := registrationFilter(c)
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		failWithError(c, h.log, service.ErrInvalidPaymentStatus)
		return
	}

	data, err := h.registrationService.ExportXLSX(c.Request.Context(), filter)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	name := fmt.Sprintf("registrations-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func registrationFilter(c *gin.Context) model.RegistrationFilter {
	return model.RegistrationFilter{
		ExamID:        c.Query("examId"),
		PaymentStatus: model.PaymentStatus(c.Query("paymentStatus")),
		Search:        c.Query("search"),
	}
}

// pageParams reads ?page= and ?per_page=, clamped to sane bounds.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

// saveOptionalUpload stores the named multipart file when the request has
// one. A false return means the response has already been written.
func saveOptionalUpload(c *gin.Context, media *service.MediaService, log zerolog.Logger, field string, kind service.UploadKind) (string, bool) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", true
		}
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return "", false
	}
	defer file.Close()

	url, err := media.SaveUpload(file, header, kind)
	if err != nil {
		failWithError(c, log, err)
		return "", false
	}
	return url, true
}

// discardUpload removes a file saved for a request that then failed.
func discardUpload(media *service.MediaService, log zerolog.Logger, url string) {
	if url == "" {
		return
	}
	if err := media.Discard(url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Failed to discard orphaned upload")
	}
}
