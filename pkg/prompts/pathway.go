// Package prompts builds the system and user messages sent to the
// recommendation model.
package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/logosreach/pathway-engine/pkg/models"
)

// QuestionLookup resolves an answer key to the question text it answers.
// Implementations return the key itself when no question is known.
type QuestionLookup interface {
	QuestionText(entryType models.EntryType, key string) string
}

// BuildSystemPrompt creates the system message. The pathway list is rendered
// from the registry so the model is always offered exactly what the API
// serves on /pathways.
func BuildSystemPrompt(pathways []models.Pathway) string {
	var b strings.Builder

	b.WriteString(`You are LogosReach Pathway Recommendation AI.

Your role:
Analyze structured questionnaire answers and recommend ONE pathway from the predefined list only.

You must:
- Use spiritual, emotional, and intent understanding
- NOT use hardcoded scoring
- NOT invent new pathways
- Choose ONLY from the pathways provided below
- Act like a compassionate spiritual counselor
- Base decision on overall pattern, not single answer
- Carefully read BOTH the question and the answer to understand context

AVAILABLE PATHWAYS:

`)

	for _, p := range pathways {
		b.WriteString(fmt.Sprintf("%d. %s (%s)\n", p.ID, p.Name, p.Duration))
		b.WriteString(fmt.Sprintf("   Theme: %s\n\n", p.Theme))
	}

	b.WriteString(`ANALYSIS CRITERIA:

1. Spiritual Stage
   - seeker: New to Christianity, doesn't know Jesus
   - new_believer: Recently accepted faith, needs foundation
   - growing_believer: Active in faith, wants to grow deeper
   - struggling_believer: Knows faith but facing challenges, distant

2. Emotional Signals
   - anxious: Worried, fearful, stressed
   - confused: Uncertain, needs clarity
   - curious: Open to learning, exploring
   - painful: Hurting, grieving
   - open: Receptive, willing
   - hopeful: Positive outlook
   - distressed: Urgent need, crisis

3. Knowledge Level
   - Familiarity with Jesus (from questions about teachings)
   - Bible exposure (from reading frequency questions)
   - Prayer life (from prayer habit questions)

4. Primary Need
   - salvation: Needs to know Jesus
   - peace: Needs calm, anxiety relief
   - understanding: Needs Bible knowledge
   - purpose: Needs direction, calling
   - healing: Needs emotional/spiritual healing
   - growth: Needs to deepen faith
   - guidance: Needs wisdom for decisions

OUTPUT FORMAT:
You MUST return ONLY valid JSON with this exact structure (no markdown, no explanation outside JSON):

{
  "recommended_pathway": "Pathway Name (duration)",
  "confidence": 0.85,
  "detected_profile": {
    "spiritual_stage": "seeker|new_believer|growing_believer|struggling_believer",
    "primary_need": "salvation|peace|understanding|purpose|healing|growth|guidance",
    "emotional_state": "anxious|confused|curious|painful|open|hopeful|distressed"
  },
  "reasoning": "2-3 sentences explaining the decision based on the specific questions and answers",
  "next_step_message": "Encouraging message to the user about starting their pathway"
}`)

	return b.String()
}

// BuildUserPrompt formats a submission for the model. Each answer is paired
// with the question it answers; a bare "Yes" is meaningless to the model
// without knowing what was asked. Pairs are emitted in sorted key order so
// identical submissions produce identical prompts.
func BuildUserPrompt(entryType models.EntryType, answers map[string]string, lookup QuestionLookup) string {
	var entryLabel, entryContext string
	if entryType == models.EntryTypeKnowing {
		entryLabel = "Existing Believer (Has knowledge of Christianity)"
		entryContext = "This user already knows about Christianity and the Bible. They are looking to grow deeper in their faith or address specific spiritual needs."
	} else {
		entryLabel = "New to Christianity (No prior knowledge)"
		entryContext = "This user is new to Christianity and exploring faith for the first time. They may be a seeker or someone curious about spiritual matters."
	}

	keys := make([]string, 0, len(answers))
	for key := range answers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		question := lookup.QuestionText(entryType, key)
		pairs = append(pairs, fmt.Sprintf("Q: %s\nA: %s", question, answers[key]))
	}

	var b strings.Builder
	b.WriteString("USER PROFILE:\n")
	b.WriteString(fmt.Sprintf("Entry Type: %s\n", entryLabel))
	b.WriteString(fmt.Sprintf("Context: %s\n\n", entryContext))
	b.WriteString("QUESTIONNAIRE RESPONSES:\n")
	b.WriteString("========================\n")
	b.WriteString(strings.Join(pairs, "\n\n"))
	b.WriteString("\n========================\n\n")
	b.WriteString(`INSTRUCTIONS:
Based on the above questions and answers, analyze this user's:
1. Spiritual Stage - Where are they in their faith journey?
2. Emotional State - What emotions or feelings do their answers reveal?
3. Primary Need - What is their most pressing spiritual need?

Then recommend the BEST matching pathway from the provided list.
Return your response in the exact JSON format specified.`)

	return b.String()
}
