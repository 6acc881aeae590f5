package donor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"donor-finder/internal/domain"
	"donor-finder/internal/mocks"
	"donor-finder/internal/service/donor"
)

func tableOf(donors ...domain.Donor) *domain.DonorTable {
	return &domain.DonorTable{Donors: donors, HasEmail: true}
}

func TestIndex_EnsureLoadedCaches(t *testing.T) {
	repo := new(mocks.DonorRepository)
	index := donor.NewIndex(repo, nil, nil, zap.NewNop())
	ctx := context.Background()

	table := tableOf(domain.Donor{ID: 0, BloodGroup: "O+"})
	repo.On("Load", ctx).Return(table, nil).Once()

	first, err := index.EnsureLoaded(ctx)
	require.NoError(t, err)
	second, err := index.EnsureLoaded(ctx)
	require.NoError(t, err)

	assert.Same(t, table, first)
	assert.Same(t, first, second)
	repo.AssertNumberOfCalls(t, "Load", 1)
}

func TestIndex_InvalidateForcesReload(t *testing.T) {
	repo := new(mocks.DonorRepository)
	index := donor.NewIndex(repo, nil, nil, zap.NewNop())
	ctx := context.Background()

	before := tableOf(domain.Donor{ID: 0})
	after := tableOf(domain.Donor{ID: 0}, domain.Donor{ID: 1})
	repo.On("Load", ctx).Return(before, nil).Once()
	repo.On("Load", ctx).Return(after, nil).Once()

	got, err := index.EnsureLoaded(ctx)
	require.NoError(t, err)
	assert.Same(t, before, got)

	index.Invalidate(ctx)

	got, err = index.EnsureLoaded(ctx)
	require.NoError(t, err)
	assert.Same(t, after, got)
	repo.AssertExpectations(t)
}

func TestIndex_InvalidateDuringLoad(t *testing.T) {
	repo := new(mocks.DonorRepository)
	index := donor.NewIndex(repo, nil, nil, zap.NewNop())
	ctx := context.Background()

	before := tableOf(domain.Donor{ID: 0})
	after := tableOf(domain.Donor{ID: 0}, domain.Donor{ID: 1})
	started := make(chan struct{})
	release := make(chan struct{})
	repo.On("Load", ctx).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(before, nil).Once()
	repo.On("Load", ctx).Return(after, nil).Once()

	done := make(chan *domain.DonorTable)
	go func() {
		table, _ := index.EnsureLoaded(ctx)
		done <- table
	}()

	<-started
	index.Invalidate(ctx)
	close(release)
	assert.Same(t, before, <-done)

	for range 3 {
		got, err := index.EnsureLoaded(ctx)
		require.NoError(t, err)
		assert.Same(t, after, got)
	}
	repo.AssertNumberOfCalls(t, "Load", 2)
}

func TestIndex_LoadFailureIsNotCached(t *testing.T) {
	repo := new(mocks.DonorRepository)
	index := donor.NewIndex(repo, nil, nil, zap.NewNop())
	ctx := context.Background()

	loadErr := &domain.SchemaError{Missing: []string{"age"}}
	repo.On("Load", ctx).Return(nil, loadErr).Twice()
	repo.On("Load", ctx).Return(tableOf(), nil).Once()

	_, err := index.EnsureLoaded(ctx)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	_, err = index.EnsureLoaded(ctx)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	table, err := index.EnsureLoaded(ctx)
	require.NoError(t, err)
	assert.NotNil(t, table)
	repo.AssertExpectations(t)
}

func TestIndex_SharedGeneration(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	repoA := new(mocks.DonorRepository)
	repoB := new(mocks.DonorRepository)
	indexA := donor.NewIndex(repoA, donor.NewRedisGenerationStore(client), nil, zap.NewNop())
	indexB := donor.NewIndex(repoB, donor.NewRedisGenerationStore(client), nil, zap.NewNop())

	repoA.On("Load", ctx).Return(tableOf(), nil).Twice()
	repoB.On("Load", ctx).Return(tableOf(), nil).Once()

	_, err := indexA.EnsureLoaded(ctx)
	require.NoError(t, err)
	_, err = indexA.EnsureLoaded(ctx)
	require.NoError(t, err)
	repoA.AssertNumberOfCalls(t, "Load", 1)

	// B registers a donor; A must notice on its next read.
	_, err = indexB.EnsureLoaded(ctx)
	require.NoError(t, err)
	indexB.Invalidate(ctx)

	gen, err := client.Get(ctx, "donors:generation").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	_, err = indexA.EnsureLoaded(ctx)
	require.NoError(t, err)
	repoA.AssertNumberOfCalls(t, "Load", 2)
}

func TestIndex_GenerationStoreDownFallsBackToLocal(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	repo := new(mocks.DonorRepository)
	index := donor.NewIndex(repo, donor.NewRedisGenerationStore(client), nil, zap.NewNop())
	repo.On("Load", ctx).Return(tableOf(), nil).Once()

	_, err := index.EnsureLoaded(ctx)
	require.NoError(t, err)

	mr.SetError("READONLY unavailable")

	_, err = index.EnsureLoaded(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Load", 1)
	assert.NotPanics(t, func() { index.Invalidate(ctx) })
}

func TestRedisGenerationStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := donor.NewRedisGenerationStore(client)
	ctx := context.Background()

	gen, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	gen, err = store.Bump(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	gen, err = store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	mr.Set("donors:generation", "garbage")
	_, err = store.Current(ctx)
	assert.True(t, err != nil && !errors.Is(err, redis.Nil))
}
