package corpus

import "unicode"

// filterWords keeps entries that can stand as one target word.
func filterWords(words []string) []string {
	out := words[:0:0]
	for _, w := range words {
		if validWord(w) {
			out = append(out, w)
		}
	}
	return out
}

func validWord(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
