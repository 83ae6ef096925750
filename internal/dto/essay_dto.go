package dto

import (
	"time"

	"github.com/noah-isme/essay-api/internal/models"
)

// EssaySubmitRequest is the student submission payload. Submissions are always
// created ungraded.
type EssaySubmitRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required"`
	Title        string `json:"title" validate:"required,min=1"`
	Content      string `json:"content" validate:"required,min=1"`
}

// EssayGradeRequest is the staff grading payload. It upserts: when an essay
// already exists for (roll, assignment) the grade fields are overwritten in
// place, otherwise a graded essay is created directly.
type EssayGradeRequest struct {
	StudentName  string                 `json:"student_name" validate:"required"`
	StudentEmail string                 `json:"student_email" validate:"required,email"`
	StudentRoll  string                 `json:"student_roll" validate:"required"`
	Title        string                 `json:"title" validate:"required"`
	Content      string                 `json:"content" validate:"required"`
	Grade        *float64               `json:"grade" validate:"omitempty,gte=0"`
	Feedback     string                 `json:"feedback"`
	Evaluation   map[string]interface{} `json:"evaluation"`
	AssignmentID *uint                  `json:"assignment_id"`
}

// EssayEvaluateRequest asks the scoring oracle for an evaluation without
// persisting anything.
type EssayEvaluateRequest struct {
	SubmissionText string `json:"submission_text" validate:"required,min=20"`
	StudentName    string `json:"student_name"`
	AssignmentID   *uint  `json:"assignment_id"`
}

// EssayResponse is the serialized essay representation. The student_* fields
// are the snapshot taken at submission time.
type EssayResponse struct {
	ID             uint                   `json:"id"`
	Title          string                 `json:"title"`
	Content        string                 `json:"content"`
	StudentID      uint                   `json:"student_id"`
	StudentName    string                 `json:"student_name"`
	StudentEmail   string                 `json:"student_email"`
	StudentRoll    string                 `json:"student_roll"`
	StudentSection string                 `json:"student_section"`
	AssignmentID   *uint                  `json:"assignment_id"`
	Assignment     *AssignmentResponse    `json:"assignment,omitempty"`
	Grade          *float64               `json:"grade"`
	GradeLetter    *string                `json:"grade_letter"`
	GPA            *float64               `json:"gpa"`
	Feedback       string                 `json:"feedback"`
	Evaluation     map[string]interface{} `json:"evaluation"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// NewEssayResponse converts a model into a DTO.
func NewEssayResponse(model models.Essay) EssayResponse {
	response := EssayResponse{
		ID:             model.ID,
		Title:          model.Title,
		Content:        model.Content,
		StudentID:      model.StudentID,
		StudentName:    model.StudentName,
		StudentEmail:   model.StudentEmail,
		StudentRoll:    model.StudentRoll,
		StudentSection: model.StudentSection,
		AssignmentID:   model.AssignmentID,
		Grade:          model.Grade,
		GradeLetter:    model.GradeLetter,
		GPA:            model.GPA,
		Feedback:       model.Feedback,
		Evaluation:     model.Evaluation,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}

	if model.Assignment != nil {
		assignment := NewAssignmentResponse(*model.Assignment)
		response.Assignment = &assignment
	}

	return response
}

// NewEssayResponseSlice converts a slice of models into DTOs.
func NewEssayResponseSlice(essays []models.Essay) []EssayResponse {
	responses := make([]EssayResponse, 0, len(essays))
	for _, essay := range essays {
		responses = append(responses, NewEssayResponse(essay))
	}

	return responses
}
