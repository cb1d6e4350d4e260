package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/brightpath/institute-api/internal/config"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

const uploadURLPrefix = "/uploads/"

// UploadKind selects which content types an upload may have.
type UploadKind int

const (
	// UploadImage accepts images only (media library, registration photos).
	UploadImage UploadKind = iota
	// UploadDocument also accepts PDF (grievance attachments).
	UploadDocument
)

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var documentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

func (k UploadKind) allowed() map[string]string {
	if k == UploadDocument {
		return documentTypes
	}
	return imageTypes
}

// MediaService handles file upload operations.
type MediaService struct {
	uploadDir string
	maxBytes  int64
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{uploadDir: cfg.UploadDir, maxBytes: cfg.MaxUploadBytes}
}

// SaveUpload stores an uploaded file under a UUID name and returns its public
// path. The content type is sniffed from the first bytes, not taken from the
// client header.
func (s *MediaService) SaveUpload(file multipart.File, header *multipart.FileHeader, kind UploadKind) (string, error) {
	if header.Size > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.maxBytes)
	}

	br := bufio.NewReader(file)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head)
	ext, ok := kind.allowed()[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(kind), ", "))
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.uploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	// Cap the copy as well; header.Size is client supplied.
	n, err := io.Copy(dst, io.LimitReader(br, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	if n > s.maxBytes {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	return uploadURLPrefix + filename, nil
}

// Discard removes a file previously returned by SaveUpload. Unknown or
// already removed files are not an error.
func (s *MediaService) Discard(url string) error {
	name := strings.TrimPrefix(url, uploadURLPrefix)
	if url == "" || name == url || name != filepath.Base(name) || name == "." || name == ".." {
		return nil
	}
	if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

func allowedTypes(kind UploadKind) []string {
	m := kind.allowed()
	types := make([]string, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
