package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/reelmint-wallet-gateway/internal/domain/record"
)

// WorkerPoolArchiveService fans archive work out over an ants pool while
// keeping the caller's at-least-once contract: the submitting goroutine
// blocks until its record has been archived or failed.
type WorkerPoolArchiveService struct {
	baseService ArchiveService
	pool        *ants.Pool
	logger      *slog.Logger
	mu          sync.Mutex
	results     map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolArchiveService(
	baseService ArchiveService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolArchiveService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolArchiveService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ArchiveRecord submits a record to the worker pool and waits for the result
func (s *WorkerPoolArchiveService) ArchiveRecord(ctx context.Context, rec *record.Record) error {
	logger := s.logger
	if rec.CorrelationID != "" {
		logger = s.logger.With("correlation_id", rec.CorrelationID)
	}

	logger.Debug("Submitting record to archive worker pool", "external_id", rec.ExternalID)

	resultChan := make(chan error, 1)

	externalID := rec.ExternalID
	s.mu.Lock()
	s.results[externalID] = resultChan
	s.mu.Unlock()

	// Copy so the worker never shares the caller's record
	recCopy := *rec

	err := s.pool.Submit(func() {
		err := s.baseService.ArchiveRecord(ctx, &recCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, externalID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		s.mu.Lock()
		delete(s.results, externalID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit record to archive worker pool",
			"external_id", rec.ExternalID,
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool
func (s *WorkerPoolArchiveService) Shutdown() {
	s.logger.Info("Shutting down archive worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool
func (s *WorkerPoolArchiveService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool
func (s *WorkerPoolArchiveService) Capacity() int {
	return s.pool.Cap()
}
