package extract

import (
	"reflect"
	"testing"
)

func TestFragments_BareString(t *testing.T) {
	got := Fragments("hello world")
	if !reflect.DeepEqual(got, []string{"hello world"}) {
		t.Errorf("expected the string itself, got %v", got)
	}
}

func TestFragments_IgnoresMetadataKeys(t *testing.T) {
	payload := map[string]any{
		"id":    "x",
		"text":  "hello",
		"usage": map[string]any{"input_tokens": float64(12)},
	}
	got := Fragments(payload)
	if !reflect.DeepEqual(got, []string{"hello"}) {
		t.Errorf("expected [hello], got %v", got)
	}
}

func TestFragments_HintRejectsNonTextStrings(t *testing.T) {
	// A string reached under a non-text hint is a role, id, or similar.
	if got := fragments("assistant", "speaker"); len(got) != 0 {
		t.Errorf("expected rejection under non-text hint, got %v", got)
	}
	if got := fragments("accepted", "message"); !reflect.DeepEqual(got, []string{"accepted"}) {
		t.Errorf("expected acceptance under text hint, got %v", got)
	}
}

func TestFragments_HintSurvivesNeutralNesting(t *testing.T) {
	// "content" is text-bearing; the hint must survive through the array and
	// the structurally-neutral "delta" wrapper.
	payload := map[string]any{
		"content": []any{
			map[string]any{
				"delta": []any{"The heart ", "pumps blood."},
			},
		},
	}
	got := Fragments(payload)
	if !reflect.DeepEqual(got, []string{"The heart ", "pumps blood."}) {
		t.Errorf("expected delta fragments in order, got %v", got)
	}
}

func TestFragments_ScalarsYieldNothing(t *testing.T) {
	for _, payload := range []any{nil, true, false, float64(42), 7} {
		if got := Fragments(payload); len(got) != 0 {
			t.Errorf("payload %v: expected no fragments, got %v", payload, got)
		}
	}
}

func TestFragments_SequencePreservesOrder(t *testing.T) {
	payload := []any{
		map[string]any{"text": "one"},
		map[string]any{"text": "two"},
		map[string]any{"text": "three"},
	}
	got := Fragments(payload)
	if !reflect.DeepEqual(got, []string{"one", "two", "three"}) {
		t.Errorf("expected element order preserved, got %v", got)
	}
}

func TestFragments_NestedTextObject(t *testing.T) {
	// A non-string "text" value is still walked rather than dropped.
	payload := map[string]any{
		"text": map[string]any{"value": "nested"},
	}
	got := Fragments(payload)
	if !reflect.DeepEqual(got, []string{"nested"}) {
		t.Errorf("expected [nested], got %v", got)
	}
}

type sdkEvent struct {
	Text string `json:"text"`
	Role string `json:"role"`
}

func TestFragments_TypedValueNormalised(t *testing.T) {
	got := Fragments(sdkEvent{Text: "from the SDK", Role: "assistant"})
	if !reflect.DeepEqual(got, []string{"from the SDK"}) {
		t.Errorf("expected [from the SDK], got %v", got)
	}
}

func TestCoerce_String(t *testing.T) {
	if got := Coerce("  padded  "); got != "padded" {
		t.Errorf("expected trimmed string, got %q", got)
	}
}

func TestCoerce_Nil(t *testing.T) {
	if got := Coerce(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestCoerce_Mapping(t *testing.T) {
	payload := map[string]any{"message": "an answer"}
	if got := Coerce(payload); got != "an answer" {
		t.Errorf("expected extracted mapping text, got %q", got)
	}
}

type sdkResult struct {
	OutputText string `json:"output_text"`
	Model      string `json:"model"`
}

func TestCoerce_AttributeProbe(t *testing.T) {
	if got := Coerce(sdkResult{OutputText: "final answer", Model: "gpt"}); got != "final answer" {
		t.Errorf("expected probed output_text, got %q", got)
	}
}

type sdkSparse struct {
	OutputText *string `json:"output_text"`
	Value      string  `json:"value"`
}

func TestCoerce_ProbeFallsThroughEmptyAttributes(t *testing.T) {
	// output_text is present but null; the probe moves on to "value".
	if got := Coerce(sdkSparse{Value: "kept"}); got != "kept" {
		t.Errorf("expected probe to continue past empty attributes, got %q", got)
	}
}
