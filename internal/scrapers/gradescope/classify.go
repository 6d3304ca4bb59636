package gradescope

import (
	"strings"
	"unicode"

	"gradescope-reminder/pkg/htmlutil"
)

const completeStatusClass = "submissionStatus-complete"

// isCompleted decides from the status cell whether an assignment needs no more work.
//
// Submitted work is marked with a status class, graded work often only shows the
// score ("8.0 / 10.0") without the class so both have to be checked.
func isCompleted(statusCell htmlutil.Element) bool {
	if statusCell.HasClass(completeStatusClass) {
		return true
	}
	return looksLikeScore(statusCell.Text())
}

func looksLikeScore(text string) bool {
	return strings.Contains(text, "/") && strings.ContainsFunc(text, unicode.IsDigit)
}
