package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightpath/institute-api/internal/config"
	"github.com/brightpath/institute-api/internal/logger"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
	"github.com/brightpath/institute-api/internal/service"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// noRegistrations matches no registration number and email pair. Other
// store methods are not expected to be reached.
type noRegistrations struct {
	service.RegistrationStore
}

func (noRegistrations) FindByNumberAndEmail(context.Context, string, string) (*model.ExamRegistration, error) {
	return nil, repository.ErrNotFound
}

func postMultipart(t *testing.T, r *gin.Engine, path string, fields map[string]string, fileField string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	part, err := w.CreateFormFile(fileField, "upload.png")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func newMediaService(t *testing.T) (*service.MediaService, string) {
	t.Helper()
	dir := t.TempDir()
	return service.NewMediaService(&config.Config{UploadDir: dir, MaxUploadBytes: 1 << 20}), dir
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("upload dir has %d orphaned files", len(entries))
	}
}

func TestCreateRegistrationUnknownExamDiscardsPhoto(t *testing.T) {
	media, dir := newMediaService(t)
	exams := newMemStore[model.Exam, *model.Exam]()
	regService := service.NewRegistrationService(noRegistrations{}, exams, nil, nil, nil, logger.Nop())
	h := NewRegistrationHandler(regService, media, logger.Nop())

	r := gin.New()
	r.POST("/api/exam-registrations", h.CreateRegistration)

	w, env := postMultipart(t, r, "/api/exam-registrations", map[string]string{
		"examId": primitive.NewObjectID().Hex(),
		"name":   "Asha Verma",
		"email":  "asha@example.com",
		"mobile": "9876543210",
	}, "photo", pngHeader)

	if w.Code != http.StatusNotFound || errCode(env) != "EXAM_NOT_FOUND" {
		t.Fatalf("got %d %s, want 404 EXAM_NOT_FOUND", w.Code, errCode(env))
	}
	assertEmptyDir(t, dir)
}

func TestFileGrievanceUnknownRegistrationDiscardsAttachment(t *testing.T) {
	media, dir := newMediaService(t)
	grievanceService := service.NewGrievanceService(nil, noRegistrations{}, nil, nil, logger.Nop())
	h := NewGrievanceHandler(grievanceService, media, logger.Nop())

	r := gin.New()
	r.POST("/api/grievances", h.FileGrievance)

	w, env := postMultipart(t, r, "/api/grievances", map[string]string{
		"registrationNumber": "REG-missing",
		"email":              "asha@example.com",
		"description":        "Marks were not counted for section B.",
	}, "attachment", pngHeader)

	if w.Code != http.StatusNotFound || errCode(env) != "REGISTRATION_NOT_FOUND" {
		t.Fatalf("got %d %s, want 404 REGISTRATION_NOT_FOUND", w.Code, errCode(env))
	}
	assertEmptyDir(t, dir)
}
