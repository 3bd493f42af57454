package models

// Spiritual stage classifications produced by the AI.
const (
	StageSeeker      = "seeker"
	StageNewBeliever = "new_believer"
	StageGrowing     = "growing_believer"
	StageStruggling  = "struggling_believer"
)

// Primary need classifications produced by the AI.
const (
	NeedSalvation     = "salvation"
	NeedPeace         = "peace"
	NeedUnderstanding = "understanding"
	NeedPurpose       = "purpose"
	NeedHealing       = "healing"
	NeedGrowth        = "growth"
	NeedGuidance      = "guidance"
)

// Emotional state classifications produced by the AI.
const (
	StateAnxious    = "anxious"
	StateConfused   = "confused"
	StateCurious    = "curious"
	StatePainful    = "painful"
	StateOpen       = "open"
	StateHopeful    = "hopeful"
	StateDistressed = "distressed"
)

// ValidSpiritualStages contains all valid spiritual stage values.
var ValidSpiritualStages = []string{StageSeeker, StageNewBeliever, StageGrowing, StageStruggling}

// ValidPrimaryNeeds contains all valid primary need values.
var ValidPrimaryNeeds = []string{
	NeedSalvation, NeedPeace, NeedUnderstanding, NeedPurpose,
	NeedHealing, NeedGrowth, NeedGuidance,
}

// ValidEmotionalStates contains all valid emotional state values.
var ValidEmotionalStates = []string{
	StateAnxious, StateConfused, StateCurious, StatePainful,
	StateOpen, StateHopeful, StateDistressed,
}

// IsValidSpiritualStage checks if the given stage is in the closed set.
func IsValidSpiritualStage(stage string) bool {
	return contains(ValidSpiritualStages, stage)
}

// IsValidPrimaryNeed checks if the given need is in the closed set.
func IsValidPrimaryNeed(need string) bool {
	return contains(ValidPrimaryNeeds, need)
}

// IsValidEmotionalState checks if the given state is in the closed set.
func IsValidEmotionalState(state string) bool {
	return contains(ValidEmotionalStates, state)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// DetectedProfile is the three-field categorical classification the AI
// produces for one submission.
type DetectedProfile struct {
	SpiritualStage string `json:"spiritual_stage"`
	PrimaryNeed    string `json:"primary_need"`
	EmotionalState string `json:"emotional_state"`
}
