package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/logosreach/pathway-engine/pkg/models"
	"github.com/logosreach/pathway-engine/pkg/questionbank"
)

const handlerBankYAML = `
initial_question: "Do you already know about Jesus and Christianity?"
flows:
  yes_i_know:
    questions:
      - question_number: 1
        question: "How often do you read the Bible?"
  no_im_new:
    questions:
      - question_number: 1
        question: "How familiar are you with the teachings of Jesus?"
      - question_number: 2
        question: "What are you most hoping to find right now?"
`

func newQuestionsMux(t *testing.T) *http.ServeMux {
	t.Helper()

	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(handlerBankYAML), 0o644))
	bank, err := questionbank.Load(path)
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewQuestionsHandler(bank, zap.NewNop()).
		RegisterRoutes(mux, func(next http.Handler) http.Handler { return next })
	return mux
}

func TestGetQuestions(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/questions/no_im_new", nil)
	rec := httptest.NewRecorder()
	newQuestionsMux(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response QuestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, models.EntryTypeNew, response.EntryType)
	assert.NotEmpty(t, response.InitialQuestion)
	require.Len(t, response.Questions, 2)
	assert.Equal(t, 1, response.Questions[0].Number)
	assert.Equal(t, "How familiar are you with the teachings of Jesus?", response.Questions[0].Text)
}

func TestGetQuestions_InvalidEntryType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/questions/maybe", nil)
	rec := httptest.NewRecorder()
	newQuestionsMux(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_entry_type")
}

func TestGetPathways(t *testing.T) {
	mux := http.NewServeMux()
	NewPathwaysHandler(questionbank.Pathways(), zap.NewNop()).
		RegisterRoutes(mux, func(next http.Handler) http.Handler { return next })

	req := httptest.NewRequest(http.MethodGet, "/pathways", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response PathwaysResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Pathways, 12)
	assert.Equal(t, "Discovering Jesus", response.Pathways[0].Name)
}
