// Package audit persists one outcome record per operation call through a
// buffered worker pool, so the response path never waits on the database.
package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/repositories"
	"go.uber.org/zap"
)

var (
	// ErrBufferFull is returned when an outcome is dropped because the buffer is full
	ErrBufferFull = errors.New("audit buffer full")

	// ErrNotRunning is returned when recording on a service that is not started or already stopped
	ErrNotRunning = errors.New("audit service not running")
)

const insertTimeout = 5 * time.Second

// Service handles asynchronous outcome persistence
type Service struct {
	repo        repositories.OutcomeRepository
	logger      *zap.Logger
	outcomes    chan *models.OperationOutcome
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu      sync.RWMutex
	started bool
	stopped bool

	recorded atomic.Int64
	dropped  atomic.Int64
	failed   atomic.Int64
}

// Config holds configuration for the Service
type Config struct {
	BufferSize  int // Size of the outcome buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  1000,
		WorkerCount: 2,
	}
}

// NewService creates a new Service instance
func NewService(repo repositories.OutcomeRepository, logger *zap.Logger, config Config) *Service {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultConfig().WorkerCount
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		repo:        repo,
		logger:      logger,
		outcomes:    make(chan *models.OperationOutcome, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the background workers
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("audit service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started audit service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))

	return nil
}

// Stop stops accepting outcomes and waits for the buffered ones to be written
func (s *Service) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.stopped = true
	close(s.outcomes)
	s.mu.Unlock()

	s.logger.Info("stopping audit service", zap.Int("pending_outcomes", len(s.outcomes)))

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		s.logger.Info("audit service stopped gracefully",
			zap.Int64("recorded", s.recorded.Load()),
			zap.Int64("dropped", s.dropped.Load()),
			zap.Int64("failed", s.failed.Load()))
		s.cancel()
		return nil
	case <-timer.C:
		// in-flight inserts are aborted; workers exit once the channel drains
		s.cancel()
		return fmt.Errorf("audit service stop timeout after %v", timeout)
	}
}

// Record queues an outcome without blocking. A full buffer drops the outcome.
func (s *Service) Record(outcome *models.OperationOutcome) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started || s.stopped {
		return ErrNotRunning
	}

	select {
	case s.outcomes <- outcome:
		return nil
	default:
		s.dropped.Add(1)
		s.logger.Warn("audit buffer full, dropping outcome",
			zap.String("operation", string(outcome.Operation)),
			zap.String("status", string(outcome.Status)))
		return ErrBufferFull
	}
}

// ListRecent reads persisted outcomes, newest first
func (s *Service) ListRecent(ctx context.Context, filter repositories.OutcomeFilter) ([]*models.OperationOutcome, error) {
	return s.repo.ListRecent(ctx, filter)
}

func (s *Service) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("audit worker started", zap.Int("worker_id", id))

	for outcome := range s.outcomes {
		if err := s.persist(outcome); err != nil {
			s.failed.Add(1)
			s.logger.Error("failed to persist operation outcome",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("operation", string(outcome.Operation)),
				zap.String("request_id", outcome.RequestID))
			continue
		}
		s.recorded.Add(1)
	}

	s.logger.Debug("audit worker stopped", zap.Int("worker_id", id))
}

func (s *Service) persist(outcome *models.OperationOutcome) error {
	ctx, cancel := context.WithTimeout(s.ctx, insertTimeout)
	defer cancel()

	if err := s.repo.Insert(ctx, outcome); err != nil {
		return fmt.Errorf("failed to insert outcome: %w", err)
	}
	return nil
}

// GetStats returns statistics about the audit service
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		BufferSize:      s.bufferSize,
		PendingOutcomes: len(s.outcomes),
		WorkerCount:     s.workerCount,
		Started:         s.started && !s.stopped,
		Recorded:        s.recorded.Load(),
		Dropped:         s.dropped.Load(),
		Failed:          s.failed.Load(),
	}
}

// Stats represents audit service statistics
type Stats struct {
	BufferSize      int   `json:"buffer_size"`
	PendingOutcomes int   `json:"pending_outcomes"`
	WorkerCount     int   `json:"worker_count"`
	Started         bool  `json:"started"`
	Recorded        int64 `json:"recorded"`
	Dropped         int64 `json:"dropped"`
	Failed          int64 `json:"failed"`
}
