package models

import (
	"encoding/json"
	"testing"

	"github.com/logosreach/pathway-engine/pkg/apperrors"
)

func validPayload() map[string]any {
	return map[string]any{
		"recommended_pathway": "Discovering Jesus (7-10 days)",
		"confidence":          0.85,
		"detected_profile": map[string]any{
			"spiritual_stage": "seeker",
			"primary_need":    "salvation",
			"emotional_state": "curious",
		},
		"reasoning":         "The user is curious about faith.",
		"next_step_message": "Start exploring who Jesus is.",
	}
}

func marshalPayload(t *testing.T, payload map[string]any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func TestRecommendationFromPayload_Valid(t *testing.T) {
	rec, err := RecommendationFromPayload(marshalPayload(t, validPayload()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.RecommendedPathway != "Discovering Jesus (7-10 days)" {
		t.Errorf("pathway = %q", rec.RecommendedPathway)
	}
	if rec.Confidence != 0.85 {
		t.Errorf("confidence = %v", rec.Confidence)
	}
	if rec.DetectedProfile.SpiritualStage != StageSeeker {
		t.Errorf("spiritual_stage = %q", rec.DetectedProfile.SpiritualStage)
	}
}

func TestRecommendationFromPayload_QuotedConfidence(t *testing.T) {
	payload := validPayload()
	payload["confidence"] = "0.7"
	rec, err := RecommendationFromPayload(marshalPayload(t, payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", rec.Confidence)
	}
}

func TestRecommendationFromPayload_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing pathway", func(p map[string]any) { delete(p, "recommended_pathway") }},
		{"missing confidence", func(p map[string]any) { delete(p, "confidence") }},
		{"confidence above one", func(p map[string]any) { p["confidence"] = 1.5 }},
		{"confidence below zero", func(p map[string]any) { p["confidence"] = -0.1 }},
		{"missing profile", func(p map[string]any) { delete(p, "detected_profile") }},
		{"unknown stage", func(p map[string]any) {
			p["detected_profile"].(map[string]any)["spiritual_stage"] = "wizard"
		}},
		{"unknown need", func(p map[string]any) {
			p["detected_profile"].(map[string]any)["primary_need"] = "snacks"
		}},
		{"unknown state", func(p map[string]any) {
			p["detected_profile"].(map[string]any)["emotional_state"] = "sleepy"
		}},
		{"missing reasoning", func(p map[string]any) { delete(p, "reasoning") }},
		{"missing next step", func(p map[string]any) { delete(p, "next_step_message") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(payload)
			_, err := RecommendationFromPayload(marshalPayload(t, payload))
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.IsMalformedResponse(err) {
				t.Errorf("expected MalformedResponseError, got %T: %v", err, err)
			}
		})
	}
}

func TestRecommendationFromPayload_NotAnObject(t *testing.T) {
	_, err := RecommendationFromPayload(json.RawMessage(`"just a string"`))
	if !apperrors.IsMalformedResponse(err) {
		t.Errorf("expected MalformedResponseError, got %v", err)
	}
}

func TestIsValidEntryType(t *testing.T) {
	if !IsValidEntryType("yes_i_know") || !IsValidEntryType("no_im_new") {
		t.Error("known entry types rejected")
	}
	if IsValidEntryType("maybe") || IsValidEntryType("") {
		t.Error("unknown entry type accepted")
	}
}
