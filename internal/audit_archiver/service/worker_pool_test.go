package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/reelmint-wallet-gateway/internal/domain/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockArchiveService for testing
type MockArchiveService struct {
	mock.Mock
}

func (m *MockArchiveService) ArchiveRecord(ctx context.Context, rec *record.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func TestWorkerPoolArchiveService_ArchiveRecord(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("delegates to the base service", func(t *testing.T) {
		mockBase := &MockArchiveService{}
		rec := sampleRecord()
		mockBase.On("ArchiveRecord", mock.Anything, mock.MatchedBy(func(r *record.Record) bool {
			return r.ExternalID == rec.ExternalID
		})).Return(nil).Once()

		pool, err := NewWorkerPoolArchiveService(mockBase, WorkerPoolConfig{Size: 2}, logger)
		require.NoError(t, err)
		defer pool.Shutdown()

		assert.NoError(t, pool.ArchiveRecord(ctx, rec))
		mockBase.AssertExpectations(t)
	})

	t.Run("returns the base service's error", func(t *testing.T) {
		mockBase := &MockArchiveService{}
		mockBase.On("ArchiveRecord", mock.Anything, mock.Anything).Return(errors.New("mongo down")).Once()

		pool, err := NewWorkerPoolArchiveService(mockBase, WorkerPoolConfig{Size: 2}, logger)
		require.NoError(t, err)
		defer pool.Shutdown()

		err = pool.ArchiveRecord(ctx, sampleRecord())
		assert.EqualError(t, err, "mongo down")
	})

	t.Run("invalid pool size", func(t *testing.T) {
		_, err := NewWorkerPoolArchiveService(&MockArchiveService{}, WorkerPoolConfig{Size: -2}, logger)
		assert.Error(t, err)
	})
}

func TestWorkerPoolArchiveService_Concurrency(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	mockBase := &MockArchiveService{}
	mockBase.On("ArchiveRecord", mock.Anything, mock.Anything).Return(nil)

	pool, err := NewWorkerPoolArchiveService(mockBase, WorkerPoolConfig{Size: 4}, logger)
	require.NoError(t, err)
	defer pool.Shutdown()

	assert.Equal(t, 4, pool.Capacity())

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := sampleRecord()
			rec.ExternalID = fmt.Sprintf("tx-%d", i)
			errs[i] = pool.ArchiveRecord(ctx, rec)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.NoError(t, errs[i])
	}
	mockBase.AssertNumberOfCalls(t, "ArchiveRecord", n)
}
