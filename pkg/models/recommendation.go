package models

import (
	"encoding/json"
	"fmt"

	"github.com/logosreach/pathway-engine/pkg/apperrors"
	"github.com/logosreach/pathway-engine/pkg/jsonutil"
)

// PathwayRecommendation is the typed classification result built from an
// upstream payload (fresh or cached).
type PathwayRecommendation struct {
	RecommendedPathway string          `json:"recommended_pathway"`
	Confidence         float64         `json:"confidence"`
	DetectedProfile    DetectedProfile `json:"detected_profile"`
	Reasoning          string          `json:"reasoning"`
	NextStepMessage    string          `json:"next_step_message"`
}

// rawRecommendation mirrors the upstream JSON shape with deferred decoding so
// individual fields can be coerced tolerantly.
type rawRecommendation struct {
	RecommendedPathway json.RawMessage `json:"recommended_pathway"`
	Confidence         json.RawMessage `json:"confidence"`
	DetectedProfile    *struct {
		SpiritualStage json.RawMessage `json:"spiritual_stage"`
		PrimaryNeed    json.RawMessage `json:"primary_need"`
		EmotionalState json.RawMessage `json:"emotional_state"`
	} `json:"detected_profile"`
	Reasoning       json.RawMessage `json:"reasoning"`
	NextStepMessage json.RawMessage `json:"next_step_message"`
}

// RecommendationFromPayload builds a PathwayRecommendation from a raw upstream
// payload, enforcing field presence and value domains. Cache content passes
// through here too, so a poisoned or truncated cached payload is rejected the
// same way a bad upstream response is.
func RecommendationFromPayload(payload json.RawMessage) (*PathwayRecommendation, error) {
	var raw rawRecommendation
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, apperrors.NewMalformedResponse("payload is not a JSON object", err)
	}

	rec := &PathwayRecommendation{
		RecommendedPathway: jsonutil.FlexibleStringValue(raw.RecommendedPathway),
		Reasoning:          jsonutil.FlexibleStringValue(raw.Reasoning),
		NextStepMessage:    jsonutil.FlexibleStringValue(raw.NextStepMessage),
	}
	if rec.RecommendedPathway == "" {
		return nil, apperrors.NewMalformedResponse("missing recommended_pathway", nil)
	}
	if rec.Reasoning == "" {
		return nil, apperrors.NewMalformedResponse("missing reasoning", nil)
	}
	if rec.NextStepMessage == "" {
		return nil, apperrors.NewMalformedResponse("missing next_step_message", nil)
	}

	confidence, err := jsonutil.FlexibleFloatValue(raw.Confidence)
	if err != nil {
		return nil, apperrors.NewMalformedResponse("missing or non-numeric confidence", err)
	}
	if confidence < 0 || confidence > 1 {
		return nil, apperrors.NewMalformedResponse(
			fmt.Sprintf("confidence %v outside [0,1]", confidence), nil)
	}
	rec.Confidence = confidence

	if raw.DetectedProfile == nil {
		return nil, apperrors.NewMalformedResponse("missing detected_profile", nil)
	}
	profile := DetectedProfile{
		SpiritualStage: jsonutil.FlexibleStringValue(raw.DetectedProfile.SpiritualStage),
		PrimaryNeed:    jsonutil.FlexibleStringValue(raw.DetectedProfile.PrimaryNeed),
		EmotionalState: jsonutil.FlexibleStringValue(raw.DetectedProfile.EmotionalState),
	}
	if !IsValidSpiritualStage(profile.SpiritualStage) {
		return nil, apperrors.NewMalformedResponse(
			fmt.Sprintf("unknown spiritual_stage %q", profile.SpiritualStage), nil)
	}
	if !IsValidPrimaryNeed(profile.PrimaryNeed) {
		return nil, apperrors.NewMalformedResponse(
			fmt.Sprintf("unknown primary_need %q", profile.PrimaryNeed), nil)
	}
	if !IsValidEmotionalState(profile.EmotionalState) {
		return nil, apperrors.NewMalformedResponse(
			fmt.Sprintf("unknown emotional_state %q", profile.EmotionalState), nil)
	}
	rec.DetectedProfile = profile

	return rec, nil
}
