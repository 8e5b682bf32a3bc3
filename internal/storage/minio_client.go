package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"helpconnect/internal/config"
)

// Object describes a stored attachment.
type Object struct {
	Name        string
	URL         string
	ContentType string
}

type Storage interface {
	Upload(ctx context.Context, requestID int64, fileName string, file io.Reader, size int64) (*Object, error)
	Delete(ctx context.Context, objectName string) error
	PresignedURL(ctx context.Context, objectName string) (string, error)
}

type MinIOClient struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
}

func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	m := &MinIOClient{
		client:    client,
		bucket:    cfg.BucketName,
		urlExpiry: cfg.URLExpiry,
	}

	if err := m.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context, region string) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.bucket, err)
	}
	logrus.WithField("bucket", m.bucket).Info("created attachment bucket")
	return nil
}

// ContentTypeFor guesses the MIME type from the file extension.
func ContentTypeFor(fileName string) string {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}

func IsImage(fileName string) bool {
	return strings.HasPrefix(ContentTypeFor(fileName), "image/")
}

func objectName(requestID int64, fileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("help-requests/%d/%d/%02d/%s%s", requestID, now.Year(), now.Month(), uuid.New().String(), ext)
}

func (m *MinIOClient) objectURL(name string) string {
	return m.client.EndpointURL().JoinPath(m.bucket, name).String()
}

func (m *MinIOClient) Upload(ctx context.Context, requestID int64, fileName string, file io.Reader, size int64) (*Object, error) {
	now := time.Now().UTC()
	name := objectName(requestID, fileName, now)
	contentType := ContentTypeFor(fileName)

	_, err := m.client.PutObject(ctx, m.bucket, name, file, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": fileName,
			"help-request-id":   fmt.Sprint(requestID),
			"uploaded-at":       now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}

	return &Object{Name: name, URL: m.objectURL(name), ContentType: contentType}, nil
}

func (m *MinIOClient) Delete(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{GovernanceBypass: true})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", objectName, err)
	}
	return nil
}

// PresignedURL returns a time-limited download link for a private bucket.
func (m *MinIOClient) PresignedURL(ctx context.Context, objectName string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, m.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", objectName, err)
	}
	return u.String(), nil
}
