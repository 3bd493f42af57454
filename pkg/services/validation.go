package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/logosreach/pathway-engine/pkg/apperrors"
	"github.com/logosreach/pathway-engine/pkg/models"
)

// answerKeyPattern matches normalized answer keys: "Q" followed by one or two
// digits.
var answerKeyPattern = regexp.MustCompile(`^Q[0-9]{1,2}$`)

// Validator checks recommendation requests before any persistence or upstream
// work happens.
type Validator struct {
	maxAnswers      int
	maxAnswerLength int
}

// NewValidator creates a validator with the given limits.
func NewValidator(maxAnswers, maxAnswerLength int) *Validator {
	return &Validator{
		maxAnswers:      maxAnswers,
		maxAnswerLength: maxAnswerLength,
	}
}

// ValidateRequest validates a submission and returns the normalized answer
// map: keys uppercased and trimmed, values trimmed. The request itself is not
// mutated. All failures are ValidationErrors.
func (v *Validator) ValidateRequest(req *models.RecommendationRequest) (map[string]string, error) {
	if !models.IsValidEntryType(string(req.EntryType)) {
		return nil, apperrors.NewValidationError("entry_type",
			fmt.Sprintf("must be %q or %q", models.EntryTypeKnowing, models.EntryTypeNew))
	}

	if len(req.Answers) == 0 {
		return nil, apperrors.NewValidationError("answers", "at least one answer is required")
	}
	if len(req.Answers) > v.maxAnswers {
		return nil, apperrors.NewValidationError("answers",
			fmt.Sprintf("at most %d answers allowed", v.maxAnswers))
	}

	normalized := make(map[string]string, len(req.Answers))
	for key, value := range req.Answers {
		normalizedKey := strings.ToUpper(strings.TrimSpace(key))
		if !answerKeyPattern.MatchString(normalizedKey) {
			return nil, apperrors.NewValidationError("answers",
				fmt.Sprintf("invalid answer key %q: expected Q1..Q99", key))
		}
		if _, dup := normalized[normalizedKey]; dup {
			return nil, apperrors.NewValidationError("answers",
				fmt.Sprintf("duplicate answer key %q", normalizedKey))
		}

		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil, apperrors.NewValidationError("answers",
				fmt.Sprintf("answer %q is empty", normalizedKey))
		}
		if utf8.RuneCountInString(trimmed) > v.maxAnswerLength {
			return nil, apperrors.NewValidationError("answers",
				fmt.Sprintf("answer %q exceeds %d characters", normalizedKey, v.maxAnswerLength))
		}
		if err := screenAnswer(normalizedKey, trimmed); err != nil {
			return nil, err
		}

		normalized[normalizedKey] = trimmed
	}

	return normalized, nil
}

// screenAnswer rejects values carrying script or SQL injection payloads.
// Answers are free text destined for JSONB storage and an AI prompt, so this
// is a screen against stored-payload abuse, not a substitute for
// parameterized queries.
func screenAnswer(key, value string) error {
	if libinjection.IsXSS(value) {
		return apperrors.NewValidationError("answers",
			fmt.Sprintf("answer %q contains disallowed markup", key))
	}
	if isSQLi, _ := libinjection.IsSQLi(value); isSQLi {
		return apperrors.NewValidationError("answers",
			fmt.Sprintf("answer %q contains a disallowed pattern", key))
	}
	return nil
}
