package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/essay-api/internal/dto"
	"github.com/noah-isme/essay-api/internal/models"
	"github.com/noah-isme/essay-api/internal/repository"
)

// ErrStudentNotFound indicates a roster record could not be found.
var ErrStudentNotFound = errors.New("student not found")

// ErrStudentExists indicates the email or roll is already on the roster.
var ErrStudentExists = errors.New("student already exists")

// RosterService manages roster records and keeps them in section-sync with
// their owning user accounts.
type RosterService interface {
	Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	List(ctx context.Context, actor Actor, sectionFilter string) ([]dto.StudentResponse, error)
	UpdateSection(ctx context.Context, studentID uint, section string) (dto.StudentResponse, error)
}

type rosterService struct {
	students  repository.StudentRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRosterService constructs a RosterService instance.
func NewRosterService(students repository.StudentRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) RosterService {
	return &rosterService{
		students:  students,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	if _, err := s.students.GetByEmail(ctx, payload.Email); err == nil {
		return dto.StudentResponse{}, ErrStudentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	if _, err := s.students.GetByRoll(ctx, payload.Roll); err == nil {
		return dto.StudentResponse{}, ErrStudentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		Name:  payload.Name,
		Email: payload.Email,
		Roll:  payload.Roll,
	}

	if err := s.students.Create(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, ErrStudentExists
		}
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("roll", student.Roll).Msg("student added")

	return dto.NewStudentResponse(student), nil
}

// List returns the roster. The section filter is honored for admins only;
// teachers see the full roster regardless of filter.
func (s *rosterService) List(ctx context.Context, actor Actor, sectionFilter string) ([]dto.StudentResponse, error) {
	section := ""
	if actor.Role == models.RoleAdmin {
		section = strings.TrimSpace(sectionFilter)
	}

	students, err := s.students.List(ctx, section)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

// UpdateSection moves a roster record to a new section and propagates the
// change to the matching user account. A missing account is not an error; the
// sync is best-effort by design.
func (s *rosterService) UpdateSection(ctx context.Context, studentID uint, section string) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	student.Section = strings.TrimSpace(section)
	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, student.Email)
	if err == nil && user.Section != student.Section {
		user.Section = student.Section
		if err := s.users.Update(ctx, &user); err != nil {
			return dto.StudentResponse{}, err
		}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("section", student.Section).Msg("student section updated")

	return dto.NewStudentResponse(student), nil
}
