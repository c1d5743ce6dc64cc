package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const productImagePrefix = "products/products"

// MaxProductImageSize caps a single uploaded product picture.
const MaxProductImageSize = 10 << 20

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ImageStore keeps uploaded product pictures and returns the reference stored on the product.
type ImageStore interface {
	SaveProductImage(ctx context.Context, filename string, size int64, r io.Reader) (string, error)
}

// ProductImageKey names an upload as products/products/YYYY/MM/DD/<uuid><ext>.
func ProductImageKey(filename string, size int64, now time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedImageTypes[ext]; !ok {
		return "", FieldErrors{"image": "Image must be a jpg, png, gif or webp file."}
	}
	if size > MaxProductImageSize {
		return "", FieldErrors{"image": "Image must be 10 MB or smaller."}
	}
	return path.Join(productImagePrefix, now.Format("2006/01/02"), uuid.New().String()+ext), nil
}

type LocalImageStore struct {
	root string
	now  func() time.Time
}

func NewLocalImageStore(root string) *LocalImageStore {
	return &LocalImageStore{root: root, now: time.Now}
}

func (s *LocalImageStore) SaveProductImage(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	key, err := ProductImageKey(filename, size, s.now())
	if err != nil {
		return "", err
	}

	dest := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, MaxProductImageSize)); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return key, nil
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MinioImageStore struct {
	client *minio.Client
	cfg    MinioConfig
	now    func() time.Time
}

func NewMinioImageStore(cfg MinioConfig) (*MinioImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioImageStore{client: client, cfg: cfg, now: time.Now}, nil
}

func (s *MinioImageStore) SaveProductImage(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	key, err := ProductImageKey(filename, size, s.now())
	if err != nil {
		return "", err
	}

	contentType := allowedImageTypes[strings.ToLower(filepath.Ext(filename))]
	_, err = s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to bucket %s: %w", s.cfg.Bucket, err)
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, key), nil
}
