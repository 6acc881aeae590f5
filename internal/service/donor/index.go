package donor

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"donor-finder/internal/domain"
	"donor-finder/internal/metrics"
	"donor-finder/internal/repository"
)

type snapshot struct {
	table      *domain.DonorTable
	local      int64
	generation int64
}

// Index caches the normalized donor table between requests. The cached
// snapshot is swapped as a single pointer, so readers never observe a
// partially built table. Concurrent first loads may both hit the store.
// A snapshot is tagged with the invalidation counters read before its load
// began, so a load that overlaps an Invalidate is rebuilt on the next read.
type Index struct {
	repo        repository.DonorRepository
	generations GenerationStore
	metrics     *metrics.Metrics
	logger      *zap.Logger

	current atomic.Pointer[snapshot]
	local   atomic.Int64
}

// NewIndex builds an empty index. generations may be nil for a single process.
func NewIndex(repo repository.DonorRepository, generations GenerationStore, m *metrics.Metrics, logger *zap.Logger) *Index {
	return &Index{
		repo:        repo,
		generations: generations,
		metrics:     m,
		logger:      logger,
	}
}

func (i *Index) EnsureLoaded(ctx context.Context) (*domain.DonorTable, error) {
	local := i.local.Load()
	gen, shared := i.sharedGeneration(ctx)
	if snap := i.current.Load(); snap != nil && snap.local == local && (!shared || snap.generation == gen) {
		return snap.table, nil
	}

	start := time.Now()
	table, err := i.repo.Load(ctx)
	i.metrics.ObserveIndexLoad(start, err)
	if err != nil {
		i.logger.Error("donor data load failed",
			zap.String("path", i.repo.Path()),
			zap.Error(err),
		)
		return nil, err
	}

	i.current.Store(&snapshot{table: table, local: local, generation: gen})
	i.logger.Debug("donor index loaded",
		zap.Int("donors", len(table.Donors)),
		zap.Bool("has_email", table.HasEmail),
		zap.Int64("generation", gen),
	)
	return table, nil
}

func (i *Index) Invalidate(ctx context.Context) {
	i.local.Add(1)
	i.current.Store(nil)

	if i.generations == nil {
		return
	}
	if _, err := i.generations.Bump(ctx); err != nil {
		i.logger.Warn("failed to publish donor index invalidation", zap.Error(err))
	}
}

func (i *Index) sharedGeneration(ctx context.Context) (int64, bool) {
	if i.generations == nil {
		return 0, false
	}
	gen, err := i.generations.Current(ctx)
	if err != nil {
		i.logger.Warn("donor index generation unavailable", zap.Error(err))
		return 0, false
	}
	return gen, true
}
