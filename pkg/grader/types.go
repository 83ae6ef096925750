// Package grader talks to the external essay scoring oracle. The oracle is an
// independently deployed service and may be down; callers decide whether and
// when to retry.
package grader

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the scoring oracle could not be reached or did not
// answer in time. It is never the result of a bad evaluation, only of a
// transport failure.
var ErrUnavailable = errors.New("scoring service unavailable")

// EvaluationInput carries the artefacts needed to score an essay.
type EvaluationInput struct {
	SubmissionText string
	StudentName    string
	AssignmentID   string
	TotalMarks     float64
}

// EvaluationResult is the structured feedback returned by the oracle. When
// GradeLetter or GPA are present they take precedence over locally derived
// values.
type EvaluationResult struct {
	Score           float64                `json:"score"`
	NormalizedScore float64                `json:"normalized_score"`
	GradeLetter     *string                `json:"grade_letter,omitempty"`
	GPA             *float64               `json:"gpa,omitempty"`
	Feedback        string                 `json:"feedback"`
	Strengths       []string               `json:"strengths"`
	Improvements    []string               `json:"improvements"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// Evaluator describes a backend capable of scoring essay submissions.
type Evaluator interface {
	Evaluate(ctx context.Context, input EvaluationInput) (EvaluationResult, error)
}
