package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/essay-api/internal/dto"
	"github.com/noah-isme/essay-api/internal/models"
	"github.com/noah-isme/essay-api/internal/repository"
)

// ErrAssignmentNotFound indicates an assignment could not be found.
var ErrAssignmentNotFound = errors.New("assignment not found")

// Actor identifies the authenticated caller for service-level decisions. Role
// and section are refreshed from the user record on every request, never read
// from token claims.
type Actor struct {
	ID      uint
	Email   string
	Role    string
	Section string
}

// IsStudent reports whether the actor holds the student role.
func (a Actor) IsStudent() bool {
	return a.Role == models.RoleStudent
}

// AssignmentService manages the assignment catalog.
type AssignmentService interface {
	Create(ctx context.Context, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignments repository.AssignmentRepository, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Create(ctx context.Context, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		// The datetime validation tag catches this first; kept as a guard.
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		Title:          payload.Title,
		Description:    payload.Description,
		DueDate:        dueDate,
		TotalMarks:     payload.TotalMarks,
		Instructions:   payload.Instructions,
		AttachmentName: payload.AttachmentName,
		Sections:       normalizeSections(payload.Sections),
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Strs("sections", assignment.Sections).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

// List returns the catalog newest first. Students only see assignments whose
// section scope is empty or contains their own section; staff see everything.
func (s *assignmentService) List(ctx context.Context, actor Actor) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}

	if actor.IsStudent() {
		visible := make([]models.Assignment, 0, len(assignments))
		for _, assignment := range assignments {
			if assignment.AllowsSection(actor.Section) {
				visible = append(visible, assignment)
			}
		}
		assignments = visible
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

// GetByID intentionally applies no section filter: a student may view any
// assignment, eligibility is enforced at submission time.
func (s *assignmentService) GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func normalizeSections(sections []string) []string {
	normalized := make([]string, 0, len(sections))
	seen := make(map[string]struct{}, len(sections))
	for _, section := range sections {
		trimmed := strings.TrimSpace(section)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
