package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service keeps point-in-time copies of the donor workbook.
type Service interface {
	ArchiveWorkbook(ctx context.Context, path string) (string, error)
}

// ObjectStore is the subset of *minio.Client the archive needs.
type ObjectStore interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type service struct {
	store  ObjectStore
	bucket string
	now    func() time.Time
}

func NewService(store ObjectStore, bucket string) Service {
	return &service{store: store, bucket: bucket, now: time.Now}
}

func (s *service) ArchiveWorkbook(ctx context.Context, path string) (string, error) {
	objectName := ObjectName(path, s.now())

	_, err := s.store.FPutObject(ctx, s.bucket, objectName, path, minio.PutObjectOptions{
		ContentType: workbookContentType,
	})
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", path, err)
	}
	return objectName, nil
}

func ObjectName(path string, at time.Time) string {
	return fmt.Sprintf("snapshots/%s-%s", at.UTC().Format("20060102T150405Z"), filepath.Base(path))
}
