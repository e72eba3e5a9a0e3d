package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/slmiksa/flyboy-beats-core/internal/config"
	"github.com/slmiksa/flyboy-beats-core/internal/modules/configs"
	"github.com/slmiksa/flyboy-beats-core/internal/pkg/response"
	"go.uber.org/zap"
)

const maxUploadSize = 20 << 20 // 20 MiB

var (
	errStorageNotConfigured = errors.New("object storage is not configured")
	errFileTooLarge         = fmt.Errorf("file exceeds %d MiB", maxUploadSize>>20)
	errUnsupportedType      = errors.New("unsupported file type")
)

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".pdf":  "application/pdf",
}

// Service uploads admin assets (slide and event artwork, partner logos,
// mixes) to S3-compatible object storage.
type Service struct {
	cfgSvc *configs.Service
	log    *zap.Logger
}

func NewService(cfgSvc *configs.Service, log *zap.Logger) *Service {
	return &Service{cfgSvc: cfgSvc, log: log}
}

func (s *Service) client(opts config.S3Options) *s3.Client {
	return s3.New(s3.Options{
		Region:       opts.Region,
		Credentials:  awscreds.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		BaseEndpoint: nonEmptyPtr(opts.Endpoint),
		UsePathStyle: opts.PathStyleAccess,
	})
}

// Upload stores one multipart file under a random key and returns its
// public URL.
func (s *Service) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return "", err
	}
	opts := cfg.S3Options
	if opts.Bucket == "" || opts.AccessKeyID == "" {
		return "", errStorageNotConfigured
	}
	if file.Size > maxUploadSize {
		return "", errFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", errUnsupportedType, ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := "uploads/" + uuid.NewString() + ext
	_, err = s.client(opts).PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(opts.Bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	s.log.Info("file uploaded",
		zap.String("key", key),
		zap.Int64("size", file.Size))
	return publicURL(opts, key), nil
}

// Delete removes an object by the URL Upload returned.
func (s *Service) Delete(ctx context.Context, fileURL string) error {
	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return err
	}
	opts := cfg.S3Options
	if opts.Bucket == "" || opts.AccessKeyID == "" {
		return errStorageNotConfigured
	}

	key, err := keyFromURL(fileURL)
	if err != nil {
		return err
	}
	_, err = s.client(opts).DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(opts.Bucket),
		Key:    aws.String(key),
	})
	return err
}

func publicURL(opts config.S3Options, key string) string {
	if opts.CustomDomain != "" {
		return strings.TrimRight(opts.CustomDomain, "/") + "/" + key
	}
	endpoint := strings.TrimRight(opts.Endpoint, "/")
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", opts.Bucket, opts.Region, key)
	}
	if opts.PathStyleAccess {
		return endpoint + "/" + opts.Bucket + "/" + key
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint + "/" + opts.Bucket + "/" + key
	}
	u.Host = opts.Bucket + "." + u.Host
	u.Path = "/" + key
	return u.String()
}

// keyFromURL extracts the object key. Only "uploads/..." paths are
// accepted so arbitrary objects cannot be deleted through the API.
func keyFromURL(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", err
	}
	path := strings.TrimPrefix(u.Path, "/")
	if idx := strings.Index(path, "uploads/"); idx >= 0 {
		return path[idx:], nil
	}
	return "", fmt.Errorf("url %q does not point to an uploaded object", fileURL)
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/files")
	g.POST("", h.upload)
	g.DELETE("", h.delete) // ?url=...
}

func (h *Handler) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file field")
		return
	}
	fileURL, err := h.svc.Upload(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, errStorageNotConfigured) || errors.Is(err, errFileTooLarge) || errors.Is(err, errUnsupportedType) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"url": fileURL})
}

func (h *Handler) delete(c *gin.Context) {
	fileURL := c.Query("url")
	if fileURL == "" {
		response.BadRequest(c, "missing url parameter")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), fileURL); err != nil {
		if errors.Is(err, errStorageNotConfigured) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
