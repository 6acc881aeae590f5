package archive_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"donor-finder/internal/service/archive"
)

type objectStore struct {
	mock.Mock
}

func (m *objectStore) FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, filePath, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func TestObjectName(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "snapshots/20260304T050607Z-Blood.xlsx", archive.ObjectName("/data/Blood.xlsx", at))
}

func TestArchiveWorkbook(t *testing.T) {
	store := new(objectStore)
	svc := archive.NewService(store, "donor-archive")
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store.On("FPutObject", ctx, "donor-archive", mock.MatchedBy(func(name string) bool {
			return len(name) > 0 && name[len(name)-len("Blood.xlsx"):] == "Blood.xlsx"
		}), "/data/Blood.xlsx", mock.Anything).Return(minio.UploadInfo{}, nil).Once()

		name, err := svc.ArchiveWorkbook(ctx, "/data/Blood.xlsx")
		require.NoError(t, err)
		assert.Contains(t, name, "snapshots/")
		store.AssertExpectations(t)
	})

	t.Run("Store Error", func(t *testing.T) {
		store.On("FPutObject", ctx, "donor-archive", mock.Anything, "/data/Blood.xlsx", mock.Anything).
			Return(minio.UploadInfo{}, errors.New("bucket gone")).Once()

		_, err := svc.ArchiveWorkbook(ctx, "/data/Blood.xlsx")
		assert.ErrorContains(t, err, "bucket gone")
	})
}
