package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"feedpress/internal/service"
	"feedpress/pkg/logger"
)

type Scheduler struct {
	generator  service.GeneratorService
	sources    service.SourceFunc
	interval   time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
	cancelFunc context.CancelFunc // cancels the current generation
	mu         sync.Mutex         // protects cancelFunc
}

func New(generator service.GeneratorService, sources service.SourceFunc, interval time.Duration) *Scheduler {
	return &Scheduler{
		generator: generator,
		sources:   sources,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	logger.Info("scheduler started", "module", "scheduler", "action", "start", "resource", "site", "result", "ok", "interval", s.interval)
}

func (s *Scheduler) Stop() {
	// Cancel any ongoing generation first
	s.mu.Lock()
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	logger.Info("scheduler stopped", "module", "scheduler", "action", "stop", "resource", "site", "result", "ok")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.generate()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.generate()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) generate() {
	// Use the same timeout as the interval
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)

	s.mu.Lock()
	s.cancelFunc = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancelFunc = nil
		s.mu.Unlock()
	}()

	sources, err := s.sources()
	if err != nil {
		logger.Error("scheduled generation", "module", "scheduler", "action", "load", "resource", "config", "result", "failed", "error", err)
		return
	}

	if _, err := s.generator.Generate(ctx, sources); err != nil {
		switch {
		case ctx.Err() != nil:
			logger.Info("scheduled generation cancelled", "module", "scheduler", "action", "generate", "resource", "site", "result", "cancelled")
		case errors.Is(err, service.ErrAlreadyRunning):
			logger.Info("scheduled generation skipped", "module", "scheduler", "action", "generate", "resource", "site", "result", "skipped", "reason", "already running")
		default:
			logger.Error("scheduled generation", "module", "scheduler", "action", "generate", "resource", "site", "result", "failed", "error", err)
		}
	}
}
