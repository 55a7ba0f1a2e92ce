package controller

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/middleware"
	"github.com/lshigami/StudyBuddy/internal/service"
	"github.com/rs/zerolog/log"
)

var errFileTooLarge = errors.New("uploaded file is too large")

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidSubmission),
		errors.Is(err, service.ErrNoSourceData),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrEmptyDocument),
		errors.Is(err, service.ErrUnreadableDocument),
		errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, service.ErrInvalidResetCode),
		errors.Is(err, service.ErrNotEnoughFlashcards),
		errors.Is(err, errFileTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAIUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(message)
	}
	ctx.JSON(status, dto.ErrorResponse{Message: message, Details: []string{err.Error()}})
}

func bindError(ctx *gin.Context, err error) {
	log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind request")
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: fmt.Sprintf("Invalid %s format", name)})
		return 0, false
	}
	return uint(id), true
}

// callerID reads the user set by middleware.Auth.
func callerID(ctx *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
	}
	return id, ok
}

// readUpload returns the named multipart file, or nil when it is absent.
func readUpload(ctx *gin.Context, field string, maxBytes int64) ([]byte, error) {
	fh, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return readFileHeader(fh, maxBytes)
}

func readFileHeader(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, errFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, errFileTooLarge
	}
	return data, nil
}

// ImageStore writes uploaded PNG/JPEG images under a directory and returns
// their public path.
type ImageStore struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

func (s ImageStore) Save(ctx *gin.Context, field string) (*string, error) {
	data, err := readUpload(ctx, field, s.MaxBytes)
	if err != nil || data == nil {
		return nil, err
	}
	mt := mimetype.Detect(data)
	if !mt.Is("image/png") && !mt.Is("image/jpeg") {
		return nil, fmt.Errorf("%w: only PNG and JPEG images are allowed, got %s", service.ErrUnsupportedFileType, mt.String())
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	name := uuid.New().String() + mt.Extension()
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	public := s.URLPrefix + "/" + name
	return &public, nil
}
