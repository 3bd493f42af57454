package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/logosreach/pathway-engine/pkg/apperrors"
	"github.com/logosreach/pathway-engine/pkg/models"
	"github.com/logosreach/pathway-engine/pkg/services"
)

// mockRecommendationService implements services.RecommendationService.
type mockRecommendationService struct {
	recommendFunc func(ctx context.Context, req *models.RecommendationRequest) (*services.RecommendResult, error)
	historyFunc   func(ctx context.Context, externalUserID string) ([]models.RecommendationSummary, error)
}

func (m *mockRecommendationService) Recommend(ctx context.Context, req *models.RecommendationRequest) (*services.RecommendResult, error) {
	if m.recommendFunc != nil {
		return m.recommendFunc(ctx, req)
	}
	return nil, errors.New("not stubbed")
}

func (m *mockRecommendationService) History(ctx context.Context, externalUserID string) ([]models.RecommendationSummary, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, externalUserID)
	}
	return nil, errors.New("not stubbed")
}

func newRecommendationsMux(svc services.RecommendationService) *http.ServeMux {
	mux := http.NewServeMux()
	handler := NewRecommendationsHandler(svc, zap.NewNop())
	handler.RegisterRoutes(mux, func(next http.Handler) http.Handler { return next })
	return mux
}

const recommendBody = `{
	"entry_type": "no_im_new",
	"answers": {"Q1": "Not familiar", "Q2": "A friend invited me"},
	"user_id": "ext-42"
}`

func sampleResult() *services.RecommendResult {
	return &services.RecommendResult{
		Recommendation: &models.PathwayRecommendation{
			RecommendedPathway: "Discovering Jesus (7-10 days)",
			Confidence:         0.85,
			DetectedProfile: models.DetectedProfile{
				SpiritualStage: "seeker",
				PrimaryNeed:    "salvation",
				EmotionalState: "curious",
			},
			Reasoning:       "New to faith and curious.",
			NextStepMessage: "Start today.",
		},
		UserID:           uuid.New(),
		RecommendationID: uuid.New(),
		Cached:           false,
	}
}

func TestRecommend_Success(t *testing.T) {
	svc := &mockRecommendationService{
		recommendFunc: func(ctx context.Context, req *models.RecommendationRequest) (*services.RecommendResult, error) {
			assert.Equal(t, models.EntryTypeNew, req.EntryType)
			require.NotNil(t, req.UserID)
			assert.Equal(t, "ext-42", *req.UserID)
			return sampleResult(), nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(recommendBody))
	rec := httptest.NewRecorder()
	newRecommendationsMux(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// Pin the wire-level envelope keys, not just the struct round trip.
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, envelope, "data")
	assert.Contains(t, envelope, "user_id")
	assert.Contains(t, envelope, "recommendation_id")

	var response RecommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	require.NotNil(t, response.Data)
	assert.Equal(t, "Discovering Jesus (7-10 days)", response.Data.RecommendedPathway)
	assert.NotEmpty(t, response.UserID)
	assert.NotEmpty(t, response.RecommendationID)
}

func TestRecommend_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	newRecommendationsMux(&mockRecommendationService{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_request")
}

func TestRecommend_ValidationError(t *testing.T) {
	svc := &mockRecommendationService{
		recommendFunc: func(ctx context.Context, req *models.RecommendationRequest) (*services.RecommendResult, error) {
			return nil, apperrors.NewValidationError("entry_type", "must be 'yes_i_know' or 'no_im_new'")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(recommendBody))
	rec := httptest.NewRecorder()
	newRecommendationsMux(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestRecommend_UpstreamFailureIsInBand(t *testing.T) {
	svc := &mockRecommendationService{
		recommendFunc: func(ctx context.Context, req *models.RecommendationRequest) (*services.RecommendResult, error) {
			return nil, errors.New("AI classification failed: HTTP 503")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(recommendBody))
	rec := httptest.NewRecorder()
	newRecommendationsMux(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response RecommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.NotEmpty(t, response.Error)
	assert.NotContains(t, response.Error, "503", "internal detail must not leak")
	assert.Nil(t, response.Data)
}

func TestRecommend_NotConfiguredIsClientError(t *testing.T) {
	svc := &mockRecommendationService{
		recommendFunc: func(ctx context.Context, req *models.RecommendationRequest) (*services.RecommendResult, error) {
			return nil, apperrors.ErrNotConfigured
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(recommendBody))
	rec := httptest.NewRecorder()
	newRecommendationsMux(svc).ServeHTTP(rec, req)

	// Unlike transient upstream failures, a missing credential is a 4xx, not
	// a success=false envelope.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_configured")
}

func TestHistory_Success(t *testing.T) {
	now := time.Now()
	svc := &mockRecommendationService{
		historyFunc: func(ctx context.Context, externalUserID string) ([]models.RecommendationSummary, error) {
			assert.Equal(t, "ext-42", externalUserID)
			return []models.RecommendationSummary{
				{ID: uuid.New(), RecommendedPathway: "Growing in Prayer (7 days)", Confidence: 0.7, CreatedAt: now},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/users/ext-42/history", nil)
	rec := httptest.NewRecorder()
	newRecommendationsMux(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, envelope, "recommendations")

	var response HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "ext-42", response.UserID)
	require.Len(t, response.Recommendations, 1)
	assert.Equal(t, "Growing in Prayer (7 days)", response.Recommendations[0].RecommendedPathway)
}

func TestHistory_UnknownUserIsEmptyList(t *testing.T) {
	svc := &mockRecommendationService{
		historyFunc: func(ctx context.Context, externalUserID string) ([]models.RecommendationSummary, error) {
			return []models.RecommendationSummary{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/users/never-seen/history", nil)
	rec := httptest.NewRecorder()
	newRecommendationsMux(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.NotNil(t, response.Recommendations)
	assert.Empty(t, response.Recommendations)
}

func TestHistory_RepositoryFailure(t *testing.T) {
	svc := &mockRecommendationService{
		historyFunc: func(ctx context.Context, externalUserID string) ([]models.RecommendationSummary, error) {
			return nil, errors.New("connection reset")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/users/ext-42/history", nil)
	rec := httptest.NewRecorder()
	newRecommendationsMux(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}
