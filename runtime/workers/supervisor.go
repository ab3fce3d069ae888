package workers

import (
	"chat-sync/contract"
	"chat-sync/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultRestartInterval = 200 * time.Millisecond
	maxBackoffFactor       = 32
)

// Restart describes one crash of a supervised worker.
type Restart struct {
	Worker  string
	Attempt int
	Err     error
	Wait    time.Duration
}

// Supervisor keeps the client's workers alive.
//
// A worker returning nil is done for good. A worker returning an error or
// panicking is started again after a delay that doubles with every
// consecutive crash (a socket that cannot redial must not spin) and falls
// back to restartInterval once the worker has stayed up for a while.
type Supervisor struct {
	Cancel          context.CancelFunc
	wg              *sync.WaitGroup
	log             *slog.Logger
	restartInterval time.Duration
	workers         []contract.Worker
	onRestart       func(Restart)

	mu       sync.Mutex
	restarts map[string]int
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	if restartInterval <= 0 {
		restartInterval = defaultRestartInterval
	}
	return &Supervisor{
		wg:              &sync.WaitGroup{},
		log:             log,
		restartInterval: restartInterval,
		restarts:        map[string]int{},
	}
}

// OnRestart registers a callback told about every restart, e.g. to show
// "reconnecting" on the console. It runs on the crashed worker's goroutine.
func (s *Supervisor) OnRestart(notify func(Restart)) *Supervisor {
	s.onRestart = notify
	return s
}

// Run blocks until every worker is done or ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	defer s.Cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Start runs worker on its own goroutine until it finishes cleanly or ctx ends.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	name := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()
		consecutive := 0
		for ctx.Err() == nil {
			startedAt := time.Now()
			err := runGuarded(ctx, worker)
			switch {
			case err == nil:
				s.log.Info("Worker finished", "name", name)
				return
			case ctx.Err() != nil:
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			if time.Since(startedAt) > s.restartInterval*maxBackoffFactor {
				consecutive = 0
			}
			consecutive++
			restart := Restart{Worker: name, Attempt: s.recordRestart(name), Err: err, Wait: s.backoff(consecutive)}
			s.log.Warn("Worker crashed, restarting", "name", name, "attempt", restart.Attempt, "wait", restart.Wait, "error", err)
			if s.onRestart != nil {
				s.onRestart(restart)
			}

			select {
			case <-ctx.Done():
			case <-time.After(restart.Wait):
			}
		}
		s.log.Info(fmt.Sprintf("Stopping : %s", name))
	}()
}

// runGuarded turns a panic of the worker into an ErrWorkerPanic error.
func runGuarded(ctx context.Context, worker contract.Worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
		}
	}()
	return worker.Run(ctx)
}

// backoff is restartInterval * 2^(consecutive-1), capped at maxBackoffFactor.
func (s *Supervisor) backoff(consecutive int) time.Duration {
	factor := 1
	for i := 1; i < consecutive && factor < maxBackoffFactor; i++ {
		factor *= 2
	}
	return s.restartInterval * time.Duration(factor)
}

func (s *Supervisor) recordRestart(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restarts[name]++
	return s.restarts[name]
}

// Restarts is how many times the named worker has been restarted so far.
func (s *Supervisor) Restarts(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restarts[name]
}

// Stop cancels every supervised worker; Run returns once they are all done.
func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}
