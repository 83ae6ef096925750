package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/essay-api/internal/dto"
	"github.com/noah-isme/essay-api/internal/grading"
	"github.com/noah-isme/essay-api/internal/models"
	"github.com/noah-isme/essay-api/internal/repository"
	"github.com/noah-isme/essay-api/pkg/grader"
)

// ErrEssayNotFound indicates an essay could not be found.
var ErrEssayNotFound = errors.New("essay not found")

// ErrAlreadySubmitted indicates the student already has an essay for the
// assignment. The (roll, assignment) unique index is the authoritative source
// of this error; the pre-insert lookup only produces it earlier.
var ErrAlreadySubmitted = errors.New("assignment already submitted")

// ErrSectionRequired indicates the submitting student has no section set.
var ErrSectionRequired = errors.New("section is required before submitting")

// ErrSectionNotAllowed indicates the assignment is scoped to other sections.
var ErrSectionNotAllowed = errors.New("assignment is not available for your section")

// ErrPastDue indicates the assignment deadline has passed.
var ErrPastDue = errors.New("assignment is past due")

// ErrOwnSubmissionsOnly indicates a student asked for another student's essays.
var ErrOwnSubmissionsOnly = errors.New("you can only view your own submissions")

// EssayService orchestrates the submission and grading workflow.
type EssayService interface {
	Submit(ctx context.Context, actor Actor, payload dto.EssaySubmitRequest) (dto.EssayResponse, error)
	GradeDirect(ctx context.Context, payload dto.EssayGradeRequest) (dto.EssayResponse, error)
	Evaluate(ctx context.Context, payload dto.EssayEvaluateRequest) (grader.EvaluationResult, error)
	ListAll(ctx context.Context) ([]dto.EssayResponse, error)
	ListByRoll(ctx context.Context, actor Actor, roll string) ([]dto.EssayResponse, error)
	ListByAssignment(ctx context.Context, assignmentID uint) ([]dto.EssayResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]dto.EssayResponse, error)
}

type essayService struct {
	essays      repository.EssayRepository
	students    repository.StudentRepository
	assignments repository.AssignmentRepository
	evaluator   grader.Evaluator
	validator   *validator.Validate
	policy      *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEssayService constructs an EssayService instance. The evaluator may be
// nil when no scoring backend is configured.
func NewEssayService(essays repository.EssayRepository, students repository.StudentRepository, assignments repository.AssignmentRepository, evaluator grader.Evaluator, validate *validator.Validate, logger zerolog.Logger) EssayService {
	return &essayService{
		essays:      essays,
		students:    students,
		assignments: assignments,
		evaluator:   evaluator,
		validator:   validate,
		policy:      bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "essay_service").Logger(),
		now:         time.Now,
	}
}

func (s *essayService) Submit(ctx context.Context, actor Actor, payload dto.EssaySubmitRequest) (dto.EssayResponse, error) {
	if !actor.IsStudent() {
		return dto.EssayResponse{}, ErrStudentsOnly
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.EssayResponse{}, err
	}

	if strings.TrimSpace(actor.Section) == "" {
		return dto.EssayResponse{}, ErrSectionRequired
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EssayResponse{}, ErrAssignmentNotFound
		}
		return dto.EssayResponse{}, err
	}

	if !assignment.AllowsSection(actor.Section) {
		return dto.EssayResponse{}, ErrSectionNotAllowed
	}

	// Deadlines are enforced here, not by clients.
	if assignment.IsPastDue(s.now()) {
		return dto.EssayResponse{}, ErrPastDue
	}

	student, err := s.findOrCreateStudentByEmail(ctx, actor)
	if err != nil {
		return dto.EssayResponse{}, err
	}

	assignmentID := assignment.ID
	if _, err := s.essays.GetByRollAndAssignment(ctx, student.Roll, &assignmentID); err == nil {
		return dto.EssayResponse{}, ErrAlreadySubmitted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.EssayResponse{}, err
	}

	essay := models.Essay{
		Title:          payload.Title,
		Content:        s.policy.Sanitize(payload.Content),
		StudentID:      student.ID,
		StudentName:    student.Name,
		StudentEmail:   student.Email,
		StudentRoll:    student.Roll,
		StudentSection: student.Section,
		AssignmentID:   &assignmentID,
	}

	if err := s.essays.Create(ctx, &essay); err != nil {
		// Concurrent duplicate submits race past the lookup above; the unique
		// index settles it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EssayResponse{}, ErrAlreadySubmitted
		}
		return dto.EssayResponse{}, err
	}

	created, err := s.essays.GetByID(ctx, essay.ID)
	if err != nil {
		return dto.EssayResponse{}, err
	}

	s.logger.Info().Uint("essay_id", created.ID).Str("student_roll", student.Roll).Msg("essay submitted")

	return dto.NewEssayResponse(created), nil
}

func (s *essayService) GradeDirect(ctx context.Context, payload dto.EssayGradeRequest) (dto.EssayResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EssayResponse{}, err
	}

	student, err := s.findOrCreateStudentByRoll(ctx, payload)
	if err != nil {
		return dto.EssayResponse{}, err
	}

	var assignment *models.Assignment
	if payload.AssignmentID != nil {
		loaded, err := s.assignments.GetByID(ctx, *payload.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.EssayResponse{}, ErrAssignmentNotFound
			}
			return dto.EssayResponse{}, err
		}
		assignment = &loaded
	}

	var gradeLetter *string
	var gpa *float64
	if payload.Grade != nil && assignment != nil {
		gradeLetter, gpa = grading.Derive(*payload.Grade, assignment.TotalMarks)
	}
	gradeLetter, gpa = applyEvaluationOverrides(payload.Evaluation, gradeLetter, gpa)

	content := s.policy.Sanitize(payload.Content)
	feedback := s.policy.Sanitize(payload.Feedback)

	existing, err := s.essays.GetByRollAndAssignment(ctx, payload.StudentRoll, payload.AssignmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.EssayResponse{}, err
	}

	if err == nil {
		// Re-grade: overwrite in place, never a second row.
		existing.Grade = payload.Grade
		existing.GradeLetter = gradeLetter
		existing.GPA = gpa
		existing.Feedback = feedback
		existing.Evaluation = payload.Evaluation
		existing.Content = content

		if err := s.essays.Update(ctx, &existing); err != nil {
			return dto.EssayResponse{}, err
		}

		s.logger.Info().Uint("essay_id", existing.ID).Str("student_roll", payload.StudentRoll).Msg("essay re-graded")

		return dto.NewEssayResponse(existing), nil
	}

	essay := models.Essay{
		Title:          payload.Title,
		Content:        content,
		StudentID:      student.ID,
		StudentName:    payload.StudentName,
		StudentEmail:   payload.StudentEmail,
		StudentRoll:    payload.StudentRoll,
		StudentSection: student.Section,
		AssignmentID:   payload.AssignmentID,
		Grade:          payload.Grade,
		GradeLetter:    gradeLetter,
		GPA:            gpa,
		Feedback:       feedback,
		Evaluation:     payload.Evaluation,
	}

	if err := s.essays.Create(ctx, &essay); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EssayResponse{}, ErrAlreadySubmitted
		}
		return dto.EssayResponse{}, err
	}

	s.logger.Info().Uint("essay_id", essay.ID).Str("student_roll", payload.StudentRoll).Msg("essay graded")

	return dto.NewEssayResponse(essay), nil
}

// Evaluate runs the scoring oracle without persisting anything; the grader
// saves the outcome explicitly through GradeDirect.
func (s *essayService) Evaluate(ctx context.Context, payload dto.EssayEvaluateRequest) (grader.EvaluationResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return grader.EvaluationResult{}, err
	}

	if s.evaluator == nil {
		return grader.EvaluationResult{}, grader.ErrUnavailable
	}

	input := grader.EvaluationInput{
		SubmissionText: payload.SubmissionText,
		StudentName:    payload.StudentName,
	}

	if payload.AssignmentID != nil {
		assignment, err := s.assignments.GetByID(ctx, *payload.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return grader.EvaluationResult{}, ErrAssignmentNotFound
			}
			return grader.EvaluationResult{}, err
		}
		input.AssignmentID = strconv.FormatUint(uint64(assignment.ID), 10)
		input.TotalMarks = float64(assignment.TotalMarks)
	}

	return s.evaluator.Evaluate(ctx, input)
}

func (s *essayService) ListAll(ctx context.Context) ([]dto.EssayResponse, error) {
	essays, err := s.essays.List(ctx, repository.EssayFilter{})
	if err != nil {
		return nil, err
	}

	return dto.NewEssayResponseSlice(essays), nil
}

func (s *essayService) ListByRoll(ctx context.Context, actor Actor, roll string) ([]dto.EssayResponse, error) {
	// Students may only read their own roll; the roll defaults to the email.
	if actor.IsStudent() && actor.Email != roll {
		return nil, ErrOwnSubmissionsOnly
	}

	essays, err := s.essays.List(ctx, repository.EssayFilter{StudentRoll: &roll})
	if err != nil {
		return nil, err
	}

	return dto.NewEssayResponseSlice(essays), nil
}

func (s *essayService) ListByAssignment(ctx context.Context, assignmentID uint) ([]dto.EssayResponse, error) {
	essays, err := s.essays.List(ctx, repository.EssayFilter{AssignmentID: &assignmentID})
	if err != nil {
		return nil, err
	}

	return dto.NewEssayResponseSlice(essays), nil
}

func (s *essayService) ListMine(ctx context.Context, actor Actor) ([]dto.EssayResponse, error) {
	if !actor.IsStudent() {
		return nil, ErrStudentsOnly
	}

	student, err := s.students.GetByEmail(ctx, actor.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No roster projection means no submissions yet.
			return []dto.EssayResponse{}, nil
		}
		return nil, err
	}

	essays, err := s.essays.List(ctx, repository.EssayFilter{StudentRoll: &student.Roll})
	if err != nil {
		return nil, err
	}

	return dto.NewEssayResponseSlice(essays), nil
}

func (s *essayService) findOrCreateStudentByEmail(ctx context.Context, actor Actor) (models.Student, error) {
	student, err := s.students.GetByEmail(ctx, actor.Email)
	if err == nil {
		if student.Section != actor.Section {
			student.Section = actor.Section
			if err := s.students.Update(ctx, &student); err != nil {
				return models.Student{}, err
			}
		}
		return student, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Student{}, err
	}

	student = models.Student{
		Name:    emailLocalPart(actor.Email),
		Email:   actor.Email,
		Roll:    actor.Email,
		Section: actor.Section,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return models.Student{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("email", actor.Email).Msg("student auto-created for submission")

	return student, nil
}

func (s *essayService) findOrCreateStudentByRoll(ctx context.Context, payload dto.EssayGradeRequest) (models.Student, error) {
	student, err := s.students.GetByRoll(ctx, payload.StudentRoll)
	if err == nil {
		if student.Name != payload.StudentName || student.Email != payload.StudentEmail {
			student.Name = payload.StudentName
			student.Email = payload.StudentEmail
			if err := s.students.Update(ctx, &student); err != nil {
				return models.Student{}, err
			}
		}
		return student, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Student{}, err
	}

	student = models.Student{
		Name:  payload.StudentName,
		Email: payload.StudentEmail,
		Roll:  payload.StudentRoll,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return models.Student{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("roll", payload.StudentRoll).Msg("student auto-created for grading")

	return student, nil
}

// applyEvaluationOverrides lets the oracle's grade_letter and gpa win over the
// locally derived values when the saved evaluation payload carries them.
func applyEvaluationOverrides(evaluation map[string]interface{}, letter *string, gpa *float64) (*string, *float64) {
	if evaluation == nil {
		return letter, gpa
	}

	if raw, ok := evaluation["grade_letter"]; ok {
		if value, ok := raw.(string); ok && value != "" {
			letter = &value
		}
	}

	if raw, ok := evaluation["gpa"]; ok {
		if value, ok := raw.(float64); ok {
			gpa = &value
		}
	}

	return letter, gpa
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
