// Package grading holds the letter-grade and GPA derivation rules.
package grading

// Derive maps a raw score against the assignment total to a letter grade and
// GPA. It returns (nil, nil) when the score is zero or the total is not a
// positive number: a zero score is indistinguishable from "not graded" in the
// stored model, so it never produces an F on its own.
//
// Breakpoints are inclusive on the lower bound and evaluated top-down.
func Derive(score float64, totalMarks int) (letter *string, gpa *float64) {
	if score == 0 || totalMarks <= 0 {
		return nil, nil
	}

	percentage := score / float64(totalMarks) * 100

	var l string
	var g float64
	switch {
	case percentage >= 90:
		l, g = "A", 4.0
	case percentage >= 80:
		l, g = "B", 3.0
	case percentage >= 70:
		l, g = "C", 2.0
	case percentage >= 60:
		l, g = "D", 1.0
	default:
		l, g = "F", 0.0
	}

	return &l, &g
}
