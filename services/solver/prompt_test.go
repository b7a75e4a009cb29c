package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	q := threeOptionQuestion()
	prompt := BuildPrompt(q)

	require.Contains(t, prompt, "Question: Which king died at the Battle of Hastings?")
	require.Contains(t, prompt, "A. Harold II\n")
	require.Contains(t, prompt, "B. Richard I\n")
	require.Contains(t, prompt, "C. Edward the Confessor\n")
	require.Contains(t, prompt, "LETTER|CONFIDENCE|REASONING")
	require.Contains(t, prompt, "Example: B|0.85|")

	// letters are positional, option order drives the mapping
	require.Less(t,
		strings.Index(prompt, "A. Harold II"),
		strings.Index(prompt, "B. Richard I"),
	)
}

func TestLetterIndexRoundTrip(t *testing.T) {
	for i := 0; i < 26; i++ {
		require.Equal(t, i, IndexForLetter(LetterForIndex(i)))
	}

	require.Equal(t, -1, IndexForLetter('a'))
	require.Equal(t, -1, IndexForLetter('4'))
	require.Equal(t, -1, IndexForLetter('|'))
}
