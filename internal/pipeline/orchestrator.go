// Package pipeline sequences one chat request through the primary backend,
// the tool-call extraction, and the optional secondary study branch, and
// assembles the response envelope with its full stage trace.
package pipeline

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/decaylee13/Anatomy-View/internal/gemini"
	"github.com/decaylee13/Anatomy-View/internal/routing"
	"github.com/decaylee13/Anatomy-View/internal/schema"
	"github.com/decaylee13/Anatomy-View/internal/trace"
)

// PrimaryClient is the generative backend that produces reply text and tool
// calls from the converted conversation.
type PrimaryClient interface {
	Configured() bool
	Model() string
	GenerateContent(ctx context.Context, contents []gemini.Content) (*gemini.GenerateResponse, error)
}

// StudyService is the secondary semantic-answer backend behind the async
// bridge. Ask absorbs all failures; ok=false stands for every one of them.
type StudyService interface {
	Enabled() bool
	Model() string
	BuildPrompt(messages []schema.Message) string
	Ask(prompt string) (string, bool)
}

const (
	degradedReply = "The Dedalus Labs assistant is not yet connected to Gemini. " +
		"Configure the GEMINI_API_KEY environment variable on the server to enable live responses."
	unavailableStudyInfo = "Study information is currently unavailable."
	processingReply      = "I am processing your request."

	errGeminiRequestFailed = "Failed to reach Gemini LLM API."
	errNoCandidates        = "Gemini returned no candidates."

	replySource = "gemini"
)

// Orchestrator runs the per-request state machine. Safe for concurrent use;
// all per-request state lives on the stack and in the per-request recorder.
type Orchestrator struct {
	primary PrimaryClient
	study   StudyService
}

// New creates an Orchestrator over the two backends.
func New(primary PrimaryClient, study StudyService) *Orchestrator {
	return &Orchestrator{primary: primary, study: study}
}

// HealthInfo carries the probe fields for the status endpoint.
type HealthInfo struct {
	Model            string
	Configured       bool
	SecondaryEnabled bool
	SecondaryModel   string
}

// Health returns the current service availability snapshot.
func (o *Orchestrator) Health() HealthInfo {
	info := HealthInfo{
		Model:            o.primary.Model(),
		Configured:       o.primary.Configured(),
		SecondaryEnabled: o.study.Enabled(),
	}
	if info.SecondaryEnabled {
		info.SecondaryModel = o.study.Model()
	}
	return info
}

// Chat processes one conversation turn and returns the response envelope
// with the HTTP status it should travel under. Only primary-backend
// failures and missing configuration surface as request-level failures;
// every secondary failure degrades studyInfo to its sentinel.
func (o *Orchestrator) Chat(ctx context.Context, messages []schema.Message) (*schema.ChatResponse, int) {
	rec := trace.NewRecorder()
	requestID := uuid.NewString()
	log := slog.With("requestId", requestID)

	if !o.primary.Configured() {
		log.Warn("gemini API key not configured; returning fallback response")
		rec.Error(schema.StepReadingPrompt, map[string]any{"messageCount": len(messages)})
		rec.Error(schema.StepRenderingReply, map[string]any{"reason": "missing_api_key"})
		return &schema.ChatResponse{
			RequestID:  requestID,
			Reply:      degradedReply,
			ToolCalls:  []schema.ToolCall{},
			AgentSteps: rec.Steps(),
		}, http.StatusServiceUnavailable
	}

	contents := gemini.BuildContents(messages)
	rec.Complete(schema.StepReadingPrompt, map[string]any{"messageCount": len(messages)})
	rec.Complete(schema.StepAugmentingContext, map[string]any{"contentCount": len(contents)})

	rec.Started(schema.StepDispatchingToGemini, map[string]any{"model": o.primary.Model()})
	dispatchStarted := time.Now()

	resp, err := o.primary.GenerateContent(ctx, contents)
	if err != nil {
		log.Error("gemini request failed", "err", err)
		rec.Error(schema.StepDispatchingToGemini, map[string]any{
			"reason":  "request_exception",
			"message": err.Error(),
		})
		rec.Error(schema.StepRenderingReply, map[string]any{"reason": "gemini_request_failed"})
		return &schema.ChatResponse{
			RequestID:  requestID,
			Error:      errGeminiRequestFailed,
			AgentSteps: rec.Steps(),
		}, http.StatusBadGateway
	}

	dispatchLatency := latencyMs(dispatchStarted)
	rec.Complete(schema.StepDispatchingToGemini, map[string]any{
		"model":      o.primary.Model(),
		"latencyMs":  dispatchLatency,
		"statusCode": http.StatusOK,
	})
	rec.Complete(schema.StepReceivingGeminiResponse, map[string]any{"statusCode": http.StatusOK})

	if len(resp.Candidates) == 0 {
		log.Error("gemini response missing candidates")
		rec.Error(schema.StepExtractingToolCalls, map[string]any{"toolCallCount": 0})
		rec.Error(schema.StepRenderingReply, map[string]any{"reason": "no_candidates"})
		return &schema.ChatResponse{
			RequestID:  requestID,
			Error:      errNoCandidates,
			AgentSteps: rec.Steps(),
		}, http.StatusBadGateway
	}

	top := resp.Candidates[0]
	fragments, toolCalls := gemini.ExtractParts(top.Content.Parts)
	rec.Complete(schema.StepExtractingToolCalls, map[string]any{"toolCallCount": len(toolCalls)})

	replyText := gemini.JoinReply(fragments)
	studyInfo := o.runStudyBranch(rec, messages, toolCalls)

	if replyText == "" && len(toolCalls) == 0 {
		// Neither text nor tools: something went wrong upstream.
		replyText = processingReply
	}

	rec.Complete(schema.StepRenderingReply, map[string]any{
		"hasText":         replyText != "",
		"toolCallCount":   len(toolCalls),
		"replySource":     replySource,
		"studyInfoLength": len(studyInfo),
	})

	return &schema.ChatResponse{
		RequestID:   requestID,
		Reply:       replyText,
		ToolCalls:   toolCalls,
		ReplySource: replySource,
		StudyInfo:   studyInfo,
		Raw: map[string]any{
			"finishReason":  top.FinishReason,
			"safetyRatings": top.SafetyRatings,
		},
		AgentSteps: rec.Steps(),
	}, http.StatusOK
}

// runStudyBranch queries the secondary backend and returns the studyInfo
// value. The routing heuristic's verdict is recorded for observability but
// does not gate the call: the study backend is asked whenever it is
// enabled. Either outcome is non-fatal to the request.
func (o *Orchestrator) runStudyBranch(rec *trace.Recorder, messages []schema.Message, toolCalls []schema.ToolCall) string {
	if !o.study.Enabled() {
		rec.Error(schema.StepDispatchingToDedalus, map[string]any{"reason": "dedalus_disabled"})
		rec.Error(schema.StepReceivingDedalusResponse, map[string]any{"reason": "dedalus_disabled"})
		return unavailableStudyInfo
	}

	heuristicHint := routing.ShouldRoute(true, messages, toolCalls)
	rec.Started(schema.StepDispatchingToDedalus, map[string]any{
		"model":              o.study.Model(),
		"heuristicSuggested": heuristicHint,
	})

	started := time.Now()
	reply, ok := o.study.Ask(o.study.BuildPrompt(messages))
	if !ok || reply == "" {
		rec.Error(schema.StepDispatchingToDedalus, map[string]any{
			"reason": "dedalus_request_failed",
			"model":  o.study.Model(),
		})
		rec.Error(schema.StepReceivingDedalusResponse, map[string]any{
			"reason": "dedalus_request_failed",
		})
		return unavailableStudyInfo
	}

	latency := latencyMs(started)
	rec.Complete(schema.StepDispatchingToDedalus, map[string]any{
		"model":              o.study.Model(),
		"latencyMs":          latency,
		"heuristicSuggested": heuristicHint,
	})
	rec.Complete(schema.StepReceivingDedalusResponse, map[string]any{"latencyMs": latency})

	return reply
}

// latencyMs reports elapsed milliseconds rounded to two decimals.
func latencyMs(since time.Time) float64 {
	ms := float64(time.Since(since).Microseconds()) / 1000.0
	return math.Round(ms*100) / 100
}
