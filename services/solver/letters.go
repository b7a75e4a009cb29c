package solver

// The letter-to-option mapping is positional: the Nth option of a question
// is always letter 'A'+N, regardless of option ids. BuildPrompt and
// ParseResponse must agree on this, so both go through these two
// functions.

func LetterForIndex(i int) byte {
	return byte('A' + i)
}

// IndexForLetter returns the zero-based option index for an uppercase
// letter, or -1 when the byte is not an uppercase letter. Callers still
// need to range-check the index against the question's option count.
func IndexForLetter(c byte) int {
	if c < 'A' || c > 'Z' {
		return -1
	}
	return int(c - 'A')
}
