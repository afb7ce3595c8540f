package dedalus

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/decaylee13/Anatomy-View/internal/schema"
)

// fakeRunner returns a canned payload or error, optionally after a delay.
type fakeRunner struct {
	payload any
	err     error
	delay   time.Duration
	calls   atomic.Int64
}

func (r *fakeRunner) Run(ctx context.Context, prompt, model string) (any, error) {
	r.calls.Add(1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return r.payload, r.err
}

func newTestService(t *testing.T, runner Runner) *Service {
	t.Helper()
	return NewService(true, "openai/gpt-5", func() (Runner, error) {
		return runner, nil
	})
}

func TestAsk_ExtractsText(t *testing.T) {
	runner := &fakeRunner{payload: map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{
					"role":    "assistant",
					"content": "  The left atrium receives oxygenated blood.  ",
				},
			},
		},
	}}
	svc := newTestService(t, runner)

	got, ok := svc.AskTimeout("what does the left atrium do?", time.Second)
	if !ok {
		t.Fatal("expected a successful answer")
	}
	if got != "The left atrium receives oxygenated blood." {
		t.Errorf("unexpected answer %q", got)
	}
}

func TestAsk_TimeoutReturnsNoAnswer(t *testing.T) {
	runner := &fakeRunner{payload: "late", delay: 300 * time.Millisecond}
	svc := newTestService(t, runner)

	start := time.Now()
	_, ok := svc.AskTimeout("slow question", 30*time.Millisecond)
	if ok {
		t.Fatal("expected no answer on timeout")
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("Ask blocked past its timeout: %v", elapsed)
	}
}

func TestAsk_RunnerErrorAbsorbed(t *testing.T) {
	runner := &fakeRunner{err: errors.New("connection refused")}
	svc := newTestService(t, runner)

	if _, ok := svc.AskTimeout("q", time.Second); ok {
		t.Fatal("expected transport failure absorbed into no answer")
	}
}

func TestAsk_Disabled(t *testing.T) {
	svc := NewService(false, "openai/gpt-5", func() (Runner, error) {
		t.Fatal("factory must not run when disabled")
		return nil, nil
	})
	if _, ok := svc.Ask("q"); ok {
		t.Fatal("expected no answer when disabled")
	}
}

func TestAsk_RunnerConstructedOnce(t *testing.T) {
	var constructions atomic.Int64
	runner := &fakeRunner{payload: map[string]any{"text": "answer"}}
	svc := NewService(true, "openai/gpt-5", func() (Runner, error) {
		constructions.Add(1)
		return runner, nil
	})

	for i := 0; i < 3; i++ {
		if _, ok := svc.AskTimeout("q", time.Second); !ok {
			t.Fatalf("ask %d failed", i)
		}
	}
	if got := constructions.Load(); got != 1 {
		t.Errorf("expected 1 runner construction, got %d", got)
	}
	if got := runner.calls.Load(); got != 3 {
		t.Errorf("expected 3 runner calls, got %d", got)
	}
}

func TestAsk_ConstructionFailureRetriedNextJob(t *testing.T) {
	var attempts atomic.Int64
	runner := &fakeRunner{payload: map[string]any{"text": "recovered"}}
	svc := NewService(true, "openai/gpt-5", func() (Runner, error) {
		if attempts.Add(1) == 1 {
			return nil, errors.New("backend SDK unavailable")
		}
		return runner, nil
	})

	if _, ok := svc.AskTimeout("first", time.Second); ok {
		t.Fatal("expected first ask to fail")
	}
	got, ok := svc.AskTimeout("second", time.Second)
	if !ok || got != "recovered" {
		t.Fatalf("expected construction retried on next job, got %q ok=%v", got, ok)
	}
}

func TestAsk_MetadataOnlyPayload(t *testing.T) {
	// Nothing text-bearing anywhere: the walk and the coercion fallback
	// both come up empty, which is still a successful (blank) answer.
	runner := &fakeRunner{payload: map[string]any{
		"id":    "resp_1",
		"usage": map[string]any{"output_tokens": float64(0)},
	}}
	svc := newTestService(t, runner)

	got, ok := svc.AskTimeout("q", time.Second)
	if !ok {
		t.Fatal("expected ok for a well-formed empty payload")
	}
	if got != "" {
		t.Errorf("expected empty answer, got %q", got)
	}
}

func TestAsk_ConcurrentCallersServedSerially(t *testing.T) {
	runner := &fakeRunner{payload: map[string]any{"text": "answer"}, delay: 10 * time.Millisecond}
	svc := newTestService(t, runner)

	done := make(chan bool, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, ok := svc.AskTimeout("q", 2*time.Second)
			done <- ok
		}()
	}
	for i := 0; i < 4; i++ {
		if !<-done {
			t.Error("concurrent ask failed")
		}
	}
	if got := runner.calls.Load(); got != 4 {
		t.Errorf("expected 4 serialized runner calls, got %d", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	messages := []schema.Message{
		{Role: "user", Text: "what is the aorta?"},
		{Role: "assistant", Text: "The aorta is the largest artery."},
		{Role: "system", Text: "hidden"},
		{Role: "assistant", Text: ""},
		{Role: "user", Text: "how big is it?"},
	}
	prompt := BuildPrompt(messages)

	if !strings.Contains(prompt, "Learner: what is the aorta?") {
		t.Error("expected learner line in transcript")
	}
	if !strings.Contains(prompt, "Guide: The aorta is the largest artery.") {
		t.Error("expected guide line in transcript")
	}
	if strings.Contains(prompt, "hidden") {
		t.Error("system messages must not leak into the transcript")
	}
	if !strings.Contains(prompt, "Provide a focused response") {
		t.Error("expected closing instruction")
	}
	learnerIdx := strings.Index(prompt, "Learner: what is the aorta?")
	followupIdx := strings.Index(prompt, "Learner: how big is it?")
	if learnerIdx > followupIdx {
		t.Error("transcript order must mirror message order")
	}
}
