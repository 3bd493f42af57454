// Package questionbank loads the questionnaire flows served to clients and
// consulted when building AI prompts. The bank is read once at startup and is
// immutable afterwards.
package questionbank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/logosreach/pathway-engine/pkg/apperrors"
	"github.com/logosreach/pathway-engine/pkg/models"
)

// Question is a single questionnaire item within a flow.
type Question struct {
	Number int    `yaml:"question_number" json:"question_number"`
	Text   string `yaml:"question" json:"question"`
}

// Flow is the ordered question list for one entry type.
type Flow struct {
	Questions []Question `yaml:"questions" json:"questions"`
}

type bankFile struct {
	InitialQuestion string          `yaml:"initial_question"`
	Flows           map[string]Flow `yaml:"flows"`
}

// Bank holds the loaded question flows.
type Bank struct {
	initialQuestion string
	flows           map[string]Flow
}

// Load reads and parses the question bank from a YAML file.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank: %w", err)
	}

	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing question bank: %w", err)
	}
	if len(file.Flows) == 0 {
		return nil, fmt.Errorf("question bank %s defines no flows", path)
	}

	return &Bank{
		initialQuestion: file.InitialQuestion,
		flows:           file.Flows,
	}, nil
}

// InitialQuestion returns the entry-type selection question shown before a
// flow is chosen.
func (b *Bank) InitialQuestion() string {
	return b.initialQuestion
}

// Questions returns the flow for an entry type, or ErrNotFound when the bank
// has no flow for it.
func (b *Bank) Questions(entryType models.EntryType) ([]Question, error) {
	flow, ok := b.flows[string(entryType)]
	if !ok {
		return nil, fmt.Errorf("flow %q: %w", entryType, apperrors.ErrNotFound)
	}
	return flow.Questions, nil
}

// QuestionText resolves an answer key like "Q3" to the full question text for
// the given flow. Unknown keys come back unchanged so a prompt can still be
// built from answers the bank has never seen.
func (b *Bank) QuestionText(entryType models.EntryType, key string) string {
	number, ok := parseQuestionNumber(key)
	if !ok {
		return key
	}

	flow, exists := b.flows[string(entryType)]
	if !exists {
		return key
	}
	for _, q := range flow.Questions {
		if q.Number == number {
			return q.Text
		}
	}
	return key
}

// parseQuestionNumber extracts n from keys of the form "Qn" or "qn".
func parseQuestionNumber(key string) (int, bool) {
	if len(key) < 2 || (key[0] != 'Q' && key[0] != 'q') {
		return 0, false
	}
	n := 0
	for _, r := range key[1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
