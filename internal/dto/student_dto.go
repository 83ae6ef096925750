package dto

import (
	"time"

	"github.com/noah-isme/essay-api/internal/models"
)

// StudentCreateRequest adds a roster record directly.
type StudentCreateRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Roll  string `json:"roll" validate:"required"`
}

// StudentSectionRequest updates a roster record's section. An empty value
// clears the section.
type StudentSectionRequest struct {
	Section string `json:"section" validate:"omitempty,max=64"`
}

// StudentResponse is the serialized roster representation.
type StudentResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roll      string    `json:"roll"`
	Section   string    `json:"section"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DashboardResponse aggregates a student's progress across the assignments
// visible to their section.
type DashboardResponse struct {
	TotalAssignments int      `json:"total_assignments"`
	Submitted        int      `json:"submitted"`
	Graded           int      `json:"graded"`
	Pending          int      `json:"pending"`
	AverageGPA       *float64 `json:"average_gpa"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Roll:      model.Roll,
		Section:   model.Section,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}
