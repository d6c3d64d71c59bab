package session

// Class is the classification of one letter of the active word.
type Class uint8

const (
	// Unclassified letters have not been typed yet.
	Unclassified Class = iota
	// Correct letters match the typed rune.
	Correct
	// Incorrect letters were typed with a different rune.
	Incorrect
)

func (c Class) String() string {
	switch c {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unclassified"
	}
}

// Key is the feedback event for the most recent keystroke.
type Key uint8

const (
	// KeyNone means the buffer did not grow (deletion or no change).
	KeyNone Key = iota
	// KeyCorrect means the newest rune matched its target or separated words.
	KeyCorrect
	// KeyIncorrect means the newest rune was wrong or overflowed the word.
	KeyIncorrect
)

// Classify compares typed runes with the target word position by position.
// The result has one entry per target letter; typed runes past the end are ignored.
func Classify(target, typed []rune) []Class {
	classes := make([]Class, len(target))
	for i := range target {
		if i >= len(typed) {
			break
		}
		if typed[i] == target[i] {
			classes[i] = Correct
		} else {
			classes[i] = Incorrect
		}
	}
	return classes
}

// Count returns how many letters are correct and incorrect.
func Count(classes []Class) (correct, incorrect int) {
	for _, c := range classes {
		switch c {
		case Correct:
			correct++
		case Incorrect:
			incorrect++
		}
	}
	return correct, incorrect
}

func keyFor(target, typed []rune, classes []Class) Key {
	if len(typed) == 0 {
		return KeyNone
	}
	i := len(typed) - 1
	if i < len(classes) {
		if classes[i] == Correct {
			return KeyCorrect
		}
		return KeyIncorrect
	}
	if i == len(target) && typed[i] == ' ' {
		return KeyCorrect
	}
	return KeyIncorrect
}
