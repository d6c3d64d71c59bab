// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// charsPerWord is the standard word length used for WPM.
const charsPerWord = 5.0

// Bundle is the final statistics of a typing test.
type Bundle struct {
	NetWPM      int
	RawWPM      int
	Accuracy    float64
	Consistency int
	Keystrokes  int
	Correct     int
	Incorrect   int
	Samples     []int
	RawSamples  []int
}

// Compute derives the statistics bundle for a test of the given length.
// Samples are copied so the bundle never aliases session state.
func Compute(correct, incorrect, durationSeconds int, samples, rawSamples []int) Bundle {
	return Bundle{
		NetWPM:      WPM(correct, durationSeconds),
		RawWPM:      WPM(correct+incorrect, durationSeconds),
		Accuracy:    Accuracy(correct, incorrect),
		Consistency: Consistency(samples),
		Keystrokes:  correct + incorrect,
		Correct:     correct,
		Incorrect:   incorrect,
		Samples:     append([]int(nil), samples...),
		RawSamples:  append([]int(nil), rawSamples...),
	}
}

// WPM returns round((chars/5) / minutes). Zero or negative time yields 0.
func WPM(chars, seconds int) int {
	if seconds <= 0 || chars <= 0 {
		return 0
	}
	minutes := float64(seconds) / 60.0
	return int(math.Round((float64(chars) / charsPerWord) / minutes))
}

// Accuracy returns the percentage of correct characters, or 0 when nothing was typed.
func Accuracy(correct, incorrect int) float64 {
	total := correct + incorrect
	if total <= 0 {
		return 0
	}
	return 100 * float64(correct) / float64(total)
}

// Consistency scores how steady the speed samples are on a 0-100 scale.
// Fewer than two samples count as fully consistent; a zero mean scores 0.
func Consistency(samples []int) int {
	if len(samples) < 2 {
		return 100
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	avg := sum / float64(len(samples))
	if avg == 0 {
		return 0
	}
	var sq float64
	for _, s := range samples {
		d := float64(s) - avg
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(samples)))
	score := math.Round((1 - stddev/avg) * 100)
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 100:
		return 100
	}
	return int(score)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round(float64(v-lo) / float64(hi-lo) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(idx, last))])
	}
	return b.String()
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
