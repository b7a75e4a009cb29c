package solver

import (
	"fmt"
	"strconv"
	"strings"

	"quizsolver/lib/textutil"
)

// A parseStrategy attempts to turn one raw model reply into a Decision.
// Strategies are tried in order, first success wins, so the strict format
// always takes precedence over the salvage path.
type parseStrategy func(raw string, q Question) (Decision, bool)

var parseStrategies = []parseStrategy{
	parseStructured,
	parseLeadingLetter,
}

// ParseResponse converts a raw model reply into an Outcome. The model's
// output channel is free text, so this is deliberately tolerant: the
// requested LETTER|CONFIDENCE|REASONING format is captured when the model
// complies, a bare letter reply is salvaged otherwise, and anything else
// leaves the question unanswered. A selection outside the question's
// option range is never fabricated.
func ParseResponse(raw string, q Question) Outcome {
	raw = strings.TrimSpace(raw)
	for _, strategy := range parseStrategies {
		if d, ok := strategy(raw, q); ok {
			return Answered(d)
		}
	}
	return Unanswered()
}

// parseStructured handles the requested machine format: at least three
// |-separated segments, LETTER then CONFIDENCE then REASONING, where
// reasoning is everything after the second delimiter.
func parseStructured(raw string, q Question) (Decision, bool) {
	parts := strings.SplitN(raw, "|", 3)
	if len(parts) < 3 {
		return Decision{}, false
	}

	letter := strings.ToUpper(strings.TrimSpace(parts[0]))
	if len(letter) != 1 {
		return Decision{}, false
	}

	confidence, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Decision{}, false
	}

	index := IndexForLetter(letter[0])
	if index < 0 || index >= len(q.Options) {
		return Decision{}, false
	}

	return Decision{
		QuestionID:       q.ID,
		SelectedOptionID: q.Options[index].ID,
		Confidence:       clampConfidence(confidence),
		Reasoning:        strings.TrimSpace(parts[2]),
	}, true
}

// fallback confidence when the model answered with a recognizable letter
// but skipped the requested format
const defaultConfidence = 0.7

func parseLeadingLetter(raw string, q Question) (Decision, bool) {
	if raw == "" {
		return Decision{}, false
	}

	first := strings.ToUpper(raw[:1])[0]
	index := IndexForLetter(first)
	if index < 0 || index >= len(q.Options) {
		return Decision{}, false
	}

	return Decision{
		QuestionID:       q.ID,
		SelectedOptionID: q.Options[index].ID,
		Confidence:       defaultConfidence,
		Reasoning:        fmt.Sprintf("model picked %c: %s", first, textutil.Truncate(raw, 100)),
	}, true
}
