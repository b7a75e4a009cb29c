package solver

// Option is one selectable answer of a quiz question. The position of an
// option within its question is significant, it determines the letter the
// model uses to refer to it.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is one extracted quiz question. Immutable after extraction.
type Question struct {
	ID       string   `json:"question_id"`
	Text     string   `json:"question_text"`
	ImageRef string   `json:"image_url,omitempty"`
	Options  []Option `json:"answers"`
}

// Decision is the model's pick for one question. Confidence is always
// inside [0, 1].
type Decision struct {
	QuestionID       string  `json:"question_id"`
	SelectedOptionID string  `json:"selected_answer_id"`
	Confidence       float64 `json:"confidence"`
	Reasoning        string  `json:"reasoning"`
}

// Outcome is the result of parsing one model reply. A question either got
// a usable Decision or it didn't, there is no partial state.
type Outcome struct {
	Answered bool
	Decision Decision
}

func Answered(d Decision) Outcome {
	return Outcome{Answered: true, Decision: d}
}

func Unanswered() Outcome {
	return Outcome{}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
