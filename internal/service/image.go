package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/recetario/backend/config"
	"github.com/pageza/recetario/backend/internal/apperror"
)

// ErrNotAnImage is returned when uploaded content is not an image
var ErrNotAnImage = apperror.Validation(apperror.FieldError{Field: "image", Message: "file is not an image"})

// ErrImageTooLarge is returned when uploaded content exceeds the size limit
var ErrImageTooLarge = apperror.Validation(apperror.FieldError{Field: "image", Message: "file is too large"})

// ImageService validates uploaded ingredient images and hands them to a store
type ImageService struct {
	store    IImageStore
	maxBytes int64
	now      func() time.Time
}

// NewImageService creates a new ImageService instance
func NewImageService(store IImageStore, maxBytes int64) *ImageService {
	return &ImageService{store: store, maxBytes: maxBytes, now: time.Now}
}

// UploadImage stores an image under a time-prefixed name and returns its public URL
func (s *ImageService) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", apperror.Storage("read upload", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), SanitizeFilename(filename))
	url, err := s.store.Save(ctx, name, contentType, data)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "image uploaded", "name", name, "bytes", len(data), "url", url)
	return url, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename strips directories and characters that are unsafe in paths or URLs
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "image"
	}
	return name
}

// LocalImageStore writes images to a directory served under URLPrefix
type LocalImageStore struct {
	Dir       string
	URLPrefix string
}

// NewLocalImageStore creates dir if needed and returns a store serving files under urlPrefix
func NewLocalImageStore(dir, urlPrefix string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalImageStore{Dir: dir, URLPrefix: urlPrefix}, nil
}

// Save writes data to a new file, never overwriting an existing one
func (s *LocalImageStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	candidate := name
	for attempt := 0; attempt < 3; attempt++ {
		f, err := os.OpenFile(filepath.Join(s.Dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			candidate = withSuffix(name, randomSuffix())
			continue
		}
		if err != nil {
			return "", apperror.Storage("create image file", err)
		}

		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			return "", apperror.Storage("write image file", err)
		}
		if err := f.Close(); err != nil {
			return "", apperror.Storage("close image file", err)
		}
		return path.Join(s.URLPrefix, candidate), nil
	}
	return "", apperror.Storage("create image file", fmt.Errorf("name collision for %s", name))
}

func withSuffix(name, suffix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + suffix + ext
}

func randomSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// S3ImageStore uploads images to an S3 bucket
type S3ImageStore struct {
	s3Config *config.S3Config
	prefix   string
}

// NewS3ImageStore creates a store writing under the given key prefix
func NewS3ImageStore(s3Config *config.S3Config, prefix string) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config, prefix: prefix}
}

// Save uploads image data to S3 and returns the public URL
func (s *S3ImageStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join(s.prefix, name)
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperror.Storage("upload image to S3", err)
	}
	return s.s3Config.PublicURL(key), nil
}
