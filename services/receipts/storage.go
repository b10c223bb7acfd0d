// Package receipts stores donation receipt files in cloud storage.
package receipts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/psf-initiatives/admin-api/config"
	"go.uber.org/zap"
)

// MaxSize is the largest accepted receipt, in bytes
const MaxSize = 5 * 1024 * 1024

// Resource types understood by the storage backend
const (
	ResourceImage = "image"
	ResourceRaw   = "raw"
)

var allowedContentTypes = map[string]string{
	"image/jpeg":      ResourceImage,
	"image/jpg":       ResourceImage,
	"image/png":       ResourceImage,
	"application/pdf": ResourceRaw,
}

// ErrNotConfigured is returned by Upload when credentials are missing
var ErrNotConfigured = errors.New("receipt storage is not configured")

// ResourceType maps an upload content type to a resource type.
// ok is false for content types that are not accepted.
func ResourceType(contentType string) (resource string, ok bool) {
	resource, ok = allowedContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return resource, ok
}

// Slug lowercases title and replaces spaces with underscores
func Slug(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "_"))
}

// Name builds a unique receipt file name for a donation titled title
func Name(title string) string {
	return fmt.Sprintf("%s_%s", Slug(title), uuid.NewString())
}

// PublicID is the storage key of the receipt called name
func PublicID(name string) string {
	return "receipts/" + name
}

// Object describes a file to upload
type Object struct {
	PublicID     string
	ResourceType string
	Body         io.Reader
}

// Result is what the backend reports after storing a file
type Result struct {
	URL      string
	PublicID string
}

// Storage uploads receipt files.
type Storage interface {
	// Configured reports whether uploads can be attempted
	Configured() bool
	Upload(ctx context.Context, obj Object) (*Result, error)
}

// CloudinaryStorage is the Cloudinary implementation of Storage
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

// NewCloudinaryStorage creates a storage client from cfg.
// Missing credentials yield an unconfigured storage rather than an error.
func NewCloudinaryStorage(cfg config.StorageConfig, logger *zap.Logger) (*CloudinaryStorage, error) {
	s := &CloudinaryStorage{folder: cfg.Folder, logger: logger}
	if !cfg.Configured() {
		logger.Warn("cloudinary credentials missing, receipt uploads disabled")
		return s, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	s.cld = cld
	return s, nil
}

// Configured reports whether credentials were supplied
func (s *CloudinaryStorage) Configured() bool {
	return s.cld != nil
}

// Upload stores obj, overwriting any file with the same public id
func (s *CloudinaryStorage) Upload(ctx context.Context, obj Object) (*Result, error) {
	if s.cld == nil {
		return nil, ErrNotConfigured
	}

	resp, err := s.cld.Upload.Upload(ctx, obj.Body, uploader.UploadParams{
		PublicID:     obj.PublicID,
		Folder:       s.folder,
		ResourceType: obj.ResourceType,
		Overwrite:    api.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	s.logger.Debug("receipt uploaded",
		zap.String("public_id", resp.PublicID),
		zap.String("resource_type", obj.ResourceType),
	)
	return &Result{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}
