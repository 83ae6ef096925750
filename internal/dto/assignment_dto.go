package dto

import (
	"time"

	"github.com/noah-isme/essay-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a new assignment.
// An empty sections list makes the assignment visible to every section.
type AssignmentCreateRequest struct {
	Title          string   `json:"title" validate:"required,min=3"`
	Description    string   `json:"description"`
	DueDate        string   `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	TotalMarks     int      `json:"total_marks" validate:"required,gt=0"`
	Instructions   string   `json:"instructions"`
	AttachmentName string   `json:"attachment_name"`
	Sections       []string `json:"sections" validate:"omitempty,dive,max=64"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	DueDate        time.Time `json:"due_date"`
	TotalMarks     int       `json:"total_marks"`
	Instructions   string    `json:"instructions"`
	AttachmentName string    `json:"attachment_name"`
	Sections       []string  `json:"sections"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		DueDate:        model.DueDate,
		TotalMarks:     model.TotalMarks,
		Instructions:   model.Instructions,
		AttachmentName: model.AttachmentName,
		Sections:       append([]string{}, model.Sections...),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
