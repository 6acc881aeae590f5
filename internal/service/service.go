package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"donor-finder/internal/config"
	"donor-finder/internal/metrics"
	"donor-finder/internal/repository"
	"donor-finder/internal/service/archive"
	"donor-finder/internal/service/donor"
	"donor-finder/internal/service/email"
	"donor-finder/internal/service/notify"
)

type Services struct {
	Index  *donor.Index
	Donor  donor.Service
	Notify notify.Service
	Mailer email.Mailer
}

// NewServices wires the donor services. redis and minioClient are optional.
func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*Services, error) {
	mailer, err := email.NewMailer(cfg)
	if err != nil {
		return nil, err
	}

	var generations donor.GenerationStore
	if redis != nil {
		generations = donor.NewRedisGenerationStore(redis)
	}

	var archiveService archive.Service
	if minioClient != nil {
		archiveService = archive.NewService(minioClient, cfg.MinIOBucket)
	}

	index := donor.NewIndex(repos.Donor, generations, m, logger.Named("index"))
	donorService := donor.NewService(repos.Donor, index, archiveService, m, logger.Named("donor"))
	notifyService := notify.NewService(index, mailer, repos.Dispatch, m, logger.Named("notify"))

	return &Services{
		Index:  index,
		Donor:  donorService,
		Notify: notifyService,
		Mailer: mailer,
	}, nil
}
