package solver

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExtractQuestions(t *testing.T) {
	pageHtml := `<html><body>
	<!-- no identifier attribute, contributes nothing -->
	<div class="wpvq-question">
		<h3 class="wpvq-question-label">Orphaned question?</h3>
		<div class="wpvq-answer" data-wpvq-answer="1"><label>Yes</label></div>
	</div>

	<!-- identifier but no valid options, contributes nothing -->
	<div class="wpvq-question" data-questionid="200">
		<h3 class="wpvq-question-label">Optionless question?</h3>
		<div class="wpvq-answer"><label>No id</label></div>
		<div class="wpvq-answer" data-wpvq-answer="5"><label>   </label></div>
	</div>

	<!-- complete container -->
	<div class="wpvq-question" data-questionid="300">
		<h3 class="wpvq-question-label">
			Who won  the 1966
			World Cup?
		</h3>
		<img class="wpvq-question-img" src="https://cdn.example.com/cup.jpg">
		<div class="wpvq-answer" data-wpvq-answer="301"><label> England </label></div>
		<div class="wpvq-answer" data-wpvq-answer="302"><label>West Germany</label></div>
	</div>
	</body></html>`

	questions, err := ExtractQuestions(context.Background(), pageHtml)
	require.NoError(t, err)

	expected := []Question{
		{
			ID:       "300",
			Text:     "Who won the 1966 World Cup?",
			ImageRef: "https://cdn.example.com/cup.jpg",
			Options: []Option{
				{ID: "301", Text: "England"},
				{ID: "302", Text: "West Germany"},
			},
		},
	}

	diff := cmp.Diff(expected, questions)
	require.Empty(t, diff)
}

func TestExtractQuestionsEmptyLabel(t *testing.T) {
	pageHtml := `<div class="wpvq-question" data-questionid="400">
		<h3 class="wpvq-question-label">   </h3>
		<div class="wpvq-answer" data-wpvq-answer="401"><label>Option</label></div>
	</div>`

	questions, err := ExtractQuestions(context.Background(), pageHtml)
	require.NoError(t, err)
	require.Empty(t, questions)
}

func TestExtractQuestionsPreservesDomOrder(t *testing.T) {
	pageHtml := `
	<div class="wpvq-question" data-questionid="2">
		<h3 class="wpvq-question-label">Second?</h3>
		<div class="wpvq-answer" data-wpvq-answer="21"><label>a</label></div>
	</div>
	<div class="wpvq-question" data-questionid="1">
		<h3 class="wpvq-question-label">First?</h3>
		<div class="wpvq-answer" data-wpvq-answer="11"><label>b</label></div>
	</div>`

	questions, err := ExtractQuestions(context.Background(), pageHtml)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	require.Equal(t, "2", questions[0].ID)
	require.Equal(t, "1", questions[1].ID)
}
