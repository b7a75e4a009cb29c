package solver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz_results.json")

	result := RunResult{
		RunID:   "run-1",
		QuizURL: "https://example.com/quiz/461",
		Questions: []Question{
			{
				ID:   "300",
				Text: "Who won the 1966 World Cup?",
				Options: []Option{
					{ID: "301", Text: "England"},
					{ID: "302", Text: "West Germany"},
				},
			},
		},
		Decisions: []Decision{
			{
				QuestionID:       "300",
				SelectedOptionID: "301",
				Confidence:       0.95,
				Reasoning:        "England beat West Germany 4-2 at Wembley.",
			},
		},
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
	}

	require.NoError(t, WriteResults(path, result))

	serialized, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(serialized, &parsed))
	require.Equal(t, "https://example.com/quiz/461", parsed["quiz_url"])

	questions := parsed["questions"].([]any)
	require.Len(t, questions, 1)
	q := questions[0].(map[string]any)
	require.Equal(t, "300", q["question_id"])

	answers := parsed["selected_answers"].([]any)
	require.Len(t, answers, 1)
	a := answers[0].(map[string]any)
	require.Equal(t, "301", a["selected_answer_id"])
	require.Equal(t, 0.95, a["confidence"])
}
