package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	cases := []struct {
		name       string
		score      float64
		totalMarks int
		wantLetter string
		wantGPA    float64
	}{
		{name: "a grade", score: 95, totalMarks: 100, wantLetter: "A", wantGPA: 4.0},
		{name: "a boundary", score: 90, totalMarks: 100, wantLetter: "A", wantGPA: 4.0},
		{name: "b grade", score: 85, totalMarks: 100, wantLetter: "B", wantGPA: 3.0},
		{name: "c grade", score: 72, totalMarks: 100, wantLetter: "C", wantGPA: 2.0},
		{name: "d grade", score: 61, totalMarks: 100, wantLetter: "D", wantGPA: 1.0},
		{name: "f grade", score: 40, totalMarks: 100, wantLetter: "F", wantGPA: 0.0},
		{name: "scaled total", score: 27, totalMarks: 30, wantLetter: "A", wantGPA: 4.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			letter, gpa := Derive(tc.score, tc.totalMarks)
			require.NotNil(t, letter)
			require.NotNil(t, gpa)
			require.Equal(t, tc.wantLetter, *letter)
			require.Equal(t, tc.wantGPA, *gpa)
		})
	}
}

func TestDeriveUngraded(t *testing.T) {
	cases := []struct {
		name       string
		score      float64
		totalMarks int
	}{
		{name: "zero score", score: 0, totalMarks: 100},
		{name: "zero total", score: 50, totalMarks: 0},
		{name: "negative total", score: 50, totalMarks: -10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			letter, gpa := Derive(tc.score, tc.totalMarks)
			require.Nil(t, letter)
			require.Nil(t, gpa)
		})
	}
}
