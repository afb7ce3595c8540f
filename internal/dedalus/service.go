// Package dedalus bridges synchronous request handling to the secondary
// study backend through one long-lived background worker.
//
// Callers never observe an error from Ask: every failure mode on this path
// (construction, transport, decode, timeout) is logged and absorbed into a
// "no answer" result, leaving the overall request unaffected.
package dedalus

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/decaylee13/Anatomy-View/internal/extract"
)

// DefaultTimeout bounds how long Ask blocks for an answer.
const DefaultTimeout = 45 * time.Second

// Runner executes one study query and returns the provider's raw,
// shape-unconstrained payload.
type Runner interface {
	Run(ctx context.Context, prompt, model string) (any, error)
}

// RunnerFactory constructs the runner lazily, at most once, on the worker.
type RunnerFactory func() (Runner, error)

type job struct {
	prompt string
	reply  chan jobResult
}

type jobResult struct {
	text string
	err  error
}

// Service owns the background worker and the lazily constructed runner.
// One Service is shared by all requests for the lifetime of the process.
type Service struct {
	enabled   bool
	model     string
	timeout   time.Duration
	newRunner RunnerFactory

	mu      sync.Mutex
	jobs    chan job
	started bool

	// runner is touched only by the worker goroutine after startWorker,
	// so it needs no lock of its own.
	runner Runner
}

// NewService creates the bridge. The worker is not started until the first
// Ask call.
func NewService(enabled bool, model string, factory RunnerFactory) *Service {
	return &Service{
		enabled:   enabled,
		model:     model,
		timeout:   DefaultTimeout,
		newRunner: factory,
	}
}

// Enabled reports whether the secondary backend may be queried at all.
func (s *Service) Enabled() bool { return s.enabled }

// Model returns the configured study model identifier.
func (s *Service) Model() string { return s.model }

// Ask schedules prompt onto the background worker and blocks until an
// answer arrives or the default timeout elapses. ok is false on timeout or
// any absorbed failure; the text is already extracted and trimmed.
func (s *Service) Ask(prompt string) (string, bool) {
	return s.AskTimeout(prompt, s.timeout)
}

// AskTimeout is Ask with an explicit bound. A timed-out job is abandoned by
// the caller but keeps running on the worker; its result is discarded.
func (s *Service) AskTimeout(prompt string, timeout time.Duration) (string, bool) {
	if !s.enabled {
		return "", false
	}
	s.startWorker()

	j := job{prompt: prompt, reply: make(chan jobResult, 1)}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	select {
	case s.jobs <- j:
	case <-deadline.C:
		slog.Warn("dedalus: request timed out waiting for the worker", "timeout", timeout)
		return "", false
	}

	select {
	case res := <-j.reply:
		if res.err != nil {
			slog.Error("dedalus: request failed", "err", res.err)
			return "", false
		}
		return res.text, true
	case <-deadline.C:
		slog.Warn("dedalus: request timed out", "timeout", timeout)
		return "", false
	}
}

// startWorker launches the worker loop exactly once, re-checking under the
// lock so concurrent first callers do not race two loops into existence.
func (s *Service) startWorker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.jobs = make(chan job)
	go s.workerLoop()
	s.started = true
}

// workerLoop serves jobs serially for the lifetime of the process, so the
// runner never needs to be safe for concurrent use.
func (s *Service) workerLoop() {
	slog.Info("dedalus: worker started", "model", s.model)
	for j := range s.jobs {
		text, err := s.runJob(context.Background(), j.prompt)
		// Buffered by one: an abandoned caller never blocks the worker.
		j.reply <- jobResult{text: text, err: err}
	}
}

func (s *Service) runJob(ctx context.Context, prompt string) (string, error) {
	if s.runner == nil {
		runner, err := s.newRunner()
		if err != nil {
			// Leave runner nil so the next job retries construction.
			return "", err
		}
		s.runner = runner
	}

	raw, err := s.runner.Run(ctx, prompt, s.model)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(strings.Join(extract.Fragments(raw), ""))
	if text != "" {
		return text, nil
	}
	// The walk found nothing; coerce the untouched payload as a last resort.
	return extract.Coerce(raw), nil
}
