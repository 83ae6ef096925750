package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/essay-api/internal/dto"
	"github.com/noah-isme/essay-api/internal/models"
)

func newAssignmentService(assignments *memoryAssignmentRepo) AssignmentService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAssignmentService(assignments, validate, testLogger())
}

func TestAssignmentServiceCreateNormalizesSections(t *testing.T) {
	repo := &memoryAssignmentRepo{}
	svc := newAssignmentService(repo)

	response, err := svc.Create(context.Background(), dto.AssignmentCreateRequest{
		Title:      "Argumentative Essay",
		DueDate:    time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		TotalMarks: 100,
		Sections:   []string{" A", "A", "", "B "},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, response.Sections)
	require.Equal(t, 100, response.TotalMarks)
}

func TestAssignmentServiceCreateRejectsInvalidPayload(t *testing.T) {
	svc := newAssignmentService(&memoryAssignmentRepo{})

	_, err := svc.Create(context.Background(), dto.AssignmentCreateRequest{
		Title:      "Essay",
		DueDate:    "not-a-date",
		TotalMarks: 100,
	})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), dto.AssignmentCreateRequest{
		Title:      "Essay",
		DueDate:    time.Now().Add(time.Hour).Format(time.RFC3339),
		TotalMarks: 0,
	})
	require.Error(t, err)
}

func TestAssignmentServiceListFiltersByStudentSection(t *testing.T) {
	repo := &memoryAssignmentRepo{}
	require.NoError(t, repo.Create(context.Background(), &models.Assignment{
		Title:      "Scoped",
		DueDate:    time.Now().Add(time.Hour),
		TotalMarks: 100,
		Sections:   []string{"A"},
	}))
	require.NoError(t, repo.Create(context.Background(), &models.Assignment{
		Title:      "Open",
		DueDate:    time.Now().Add(time.Hour),
		TotalMarks: 50,
	}))
	svc := newAssignmentService(repo)

	studentB, err := svc.List(context.Background(), Actor{Role: models.RoleStudent, Section: "B"})
	require.NoError(t, err)
	require.Len(t, studentB, 1)
	require.Equal(t, "Open", studentB[0].Title)

	studentA, err := svc.List(context.Background(), Actor{Role: models.RoleStudent, Section: "A"})
	require.NoError(t, err)
	require.Len(t, studentA, 2)

	teacher, err := svc.List(context.Background(), Actor{Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Len(t, teacher, 2)
}

func TestAssignmentServiceGetByIDOpenToAllSections(t *testing.T) {
	repo := &memoryAssignmentRepo{}
	require.NoError(t, repo.Create(context.Background(), &models.Assignment{
		Title:      "Scoped",
		DueDate:    time.Now().Add(time.Hour),
		TotalMarks: 100,
		Sections:   []string{"B"},
	}))
	svc := newAssignmentService(repo)

	assignment, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Scoped", assignment.Title)

	_, err = svc.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}
