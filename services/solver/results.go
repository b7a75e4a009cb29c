package solver

import (
	"encoding/json"
	"os"
	"time"
)

// RunResult is the full record of one solving run. It is persisted once
// at the end of a run and never read back in.
type RunResult struct {
	RunID      string     `json:"run_id"`
	QuizURL    string     `json:"quiz_url"`
	Questions  []Question `json:"questions"`
	Decisions  []Decision `json:"selected_answers"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

func WriteResults(path string, result RunResult) error {
	serialized, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, serialized, 0o644)
}
