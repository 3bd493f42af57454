package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/logosreach/pathway-engine/pkg/apperrors"
	"github.com/logosreach/pathway-engine/pkg/cache"
	"github.com/logosreach/pathway-engine/pkg/llm"
	"github.com/logosreach/pathway-engine/pkg/models"
	"github.com/logosreach/pathway-engine/pkg/prompts"
	"github.com/logosreach/pathway-engine/pkg/repositories"
	"github.com/logosreach/pathway-engine/pkg/retry"
)

// RecommendResult is the outcome of a successful recommendation pipeline run.
type RecommendResult struct {
	Recommendation   *models.PathwayRecommendation
	UserID           uuid.UUID
	RecommendationID uuid.UUID
	Cached           bool
}

// RecommendationService runs the submission pipeline and serves history
// reads.
type RecommendationService interface {
	// Recommend validates a submission, persists it, and produces a pathway
	// recommendation from cache or the AI upstream.
	Recommend(ctx context.Context, req *models.RecommendationRequest) (*RecommendResult, error)

	// History returns a user's past recommendations, newest first. An unknown
	// external user ID yields an empty list, not an error.
	History(ctx context.Context, externalUserID string) ([]models.RecommendationSummary, error)
}

type recommendationService struct {
	validator       *Validator
	users           repositories.UserRepository
	questionnaires  repositories.QuestionnaireRepository
	recommendations repositories.RecommendationRepository
	cache           *cache.RecommendationCache
	llmClient       llm.LLMClient
	questionLookup  prompts.QuestionLookup
	retryConfig     *retry.Config
	systemPrompt    string
	aiConfigured    bool
	logger          *zap.Logger
}

// NewRecommendationService wires the pipeline. pathways feeds the system
// prompt; aiConfigured reflects whether upstream credentials are present.
func NewRecommendationService(
	validator *Validator,
	users repositories.UserRepository,
	questionnaires repositories.QuestionnaireRepository,
	recommendations repositories.RecommendationRepository,
	recCache *cache.RecommendationCache,
	llmClient llm.LLMClient,
	questionLookup prompts.QuestionLookup,
	pathways []models.Pathway,
	retryConfig *retry.Config,
	aiConfigured bool,
	logger *zap.Logger,
) RecommendationService {
	return &recommendationService{
		validator:       validator,
		users:           users,
		questionnaires:  questionnaires,
		recommendations: recommendations,
		cache:           recCache,
		llmClient:       llmClient,
		questionLookup:  questionLookup,
		retryConfig:     retryConfig,
		systemPrompt:    prompts.BuildSystemPrompt(pathways),
		aiConfigured:    aiConfigured,
		logger:          logger.Named("recommendation"),
	}
}

// Recommend runs the full pipeline: validate, resolve user, persist the
// submission, then serve the classification from cache or the AI upstream and
// persist the result. The submission is stored before the cache lookup so it
// survives even when classification fails.
func (s *recommendationService) Recommend(ctx context.Context, req *models.RecommendationRequest) (*RecommendResult, error) {
	answers, err := s.validator.ValidateRequest(req)
	if err != nil {
		return nil, err
	}

	if !s.aiConfigured {
		return nil, apperrors.ErrNotConfigured
	}

	user, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving user: %w", err)
	}

	response := &models.QuestionnaireResponse{
		UserID:    user.ID,
		EntryType: req.EntryType,
		Answers:   answers,
	}
	if err := s.questionnaires.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("storing questionnaire response: %w", err)
	}

	key := cache.Key(string(req.EntryType), answers)
	payload, cached := s.cache.Get(ctx, key)
	if !cached {
		payload, err = s.classify(ctx, req.EntryType, answers)
		if err != nil {
			return nil, err
		}
	}

	// Payloads are validated on every read, cached or fresh. A cached entry
	// missing required fields fails the request the same way a fresh one does.
	recommendation, err := models.RecommendationFromPayload(payload)
	if err != nil {
		return nil, err
	}
	if !cached {
		s.cache.Set(ctx, key, payload)
	}

	record := &models.RecommendationRecord{
		UserID:                  user.ID,
		QuestionnaireResponseID: response.ID,
		RecommendedPathway:      recommendation.RecommendedPathway,
		Confidence:              recommendation.Confidence,
		SpiritualStage:          recommendation.DetectedProfile.SpiritualStage,
		PrimaryNeed:             recommendation.DetectedProfile.PrimaryNeed,
		EmotionalState:          recommendation.DetectedProfile.EmotionalState,
		Reasoning:               recommendation.Reasoning,
		NextStepMessage:         recommendation.NextStepMessage,
		RawAIResponse:           payload,
	}
	if err := s.recommendations.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("storing recommendation: %w", err)
	}

	s.logger.Info("Recommendation produced",
		zap.String("pathway", recommendation.RecommendedPathway),
		zap.Float64("confidence", recommendation.Confidence),
		zap.Bool("cached", cached))

	return &RecommendResult{
		Recommendation:   recommendation,
		UserID:           user.ID,
		RecommendationID: record.ID,
		Cached:           cached,
	}, nil
}

// History resolves the external user and lists their recommendations.
func (s *recommendationService) History(ctx context.Context, externalUserID string) ([]models.RecommendationSummary, error) {
	user, err := s.users.GetByExternalID(ctx, externalUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []models.RecommendationSummary{}, nil
		}
		return nil, fmt.Errorf("resolving user: %w", err)
	}

	summaries, err := s.recommendations.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []models.RecommendationSummary{}
	}
	return summaries, nil
}

// resolveUser finds the user for an external ID, creating one on first
// contact. Submissions without an external ID get a fresh anonymous user.
func (s *recommendationService) resolveUser(ctx context.Context, externalUserID *string) (*models.User, error) {
	if externalUserID != nil && *externalUserID != "" {
		user, err := s.users.GetByExternalID(ctx, *externalUserID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		user = &models.User{ExternalUserID: externalUserID}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	user := &models.User{}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// classify calls the AI upstream with retry and extracts the JSON payload
// from the assistant content.
func (s *recommendationService) classify(ctx context.Context, entryType models.EntryType, answers map[string]string) (json.RawMessage, error) {
	userPrompt := prompts.BuildUserPrompt(entryType, answers, s.questionLookup)

	content, err := retry.DoWithResult(ctx, s.retryConfig, func() (string, error) {
		return s.llmClient.GenerateResponse(ctx, s.systemPrompt, userPrompt)
	})
	if err != nil {
		return nil, fmt.Errorf("AI classification failed: %w", err)
	}

	return llm.ExtractJSON(content)
}
