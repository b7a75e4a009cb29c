package solver

import (
	"fmt"
	"strings"
)

// BuildPrompt renders a question into the single user-role message sent to
// the model. Options are lettered positionally (see letters.go) and the
// prompt pins the reply to the LETTER|CONFIDENCE|REASONING form that
// ParseResponse expects.
func BuildPrompt(q Question) string {
	var b strings.Builder

	b.WriteString("You are answering a pub quiz question. Please select the best answer from the given options.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", q.Text)
	b.WriteString("Options:\n")
	for i, option := range q.Options {
		fmt.Fprintf(&b, "%c. %s\n", LetterForIndex(i), option.Text)
	}
	b.WriteString("\nPlease respond with ONLY the letter (A, B, C, etc.) of the correct answer, followed by a confidence score (0.0-1.0) and brief reasoning.\n\n")
	b.WriteString("Format: LETTER|CONFIDENCE|REASONING\n\n")
	b.WriteString("Example: B|0.85|This is a well-known historical fact about the Battle of Hastings.\n")

	return b.String()
}
