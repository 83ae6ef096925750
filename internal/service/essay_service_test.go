package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/essay-api/internal/dto"
	"github.com/noah-isme/essay-api/internal/models"
	"github.com/noah-isme/essay-api/pkg/grader"
)

func newEssayService(essays *memoryEssayRepo, students *memoryStudentRepo, assignments *memoryAssignmentRepo) EssayService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewEssayService(essays, students, assignments, nil, validate, testLogger())
}

func TestEssayServiceSubmitRejectsStaff(t *testing.T) {
	svc := newEssayService(&memoryEssayRepo{}, &memoryStudentRepo{}, &memoryAssignmentRepo{})

	_, err := svc.Submit(context.Background(), Actor{ID: 1, Email: "t@example.com", Role: models.RoleTeacher}, dto.EssaySubmitRequest{
		AssignmentID: 1,
		Title:        "Essay",
		Content:      "body",
	})
	require.ErrorIs(t, err, ErrStudentsOnly)
}

func TestEssayServiceSubmitRequiresSection(t *testing.T) {
	svc := newEssayService(&memoryEssayRepo{}, &memoryStudentRepo{}, &memoryAssignmentRepo{})

	_, err := svc.Submit(context.Background(), Actor{ID: 1, Email: "x@example.com", Role: models.RoleStudent}, dto.EssaySubmitRequest{
		AssignmentID: 1,
		Title:        "Essay",
		Content:      "body",
	})
	require.ErrorIs(t, err, ErrSectionRequired)
}

func TestEssayServiceSubmitSectionNotAllowed(t *testing.T) {
	assignments := &memoryAssignmentRepo{}
	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		Title:      "Scoped",
		DueDate:    time.Now().Add(24 * time.Hour),
		TotalMarks: 100,
		Sections:   []string{"B"},
	}))
	svc := newEssayService(&memoryEssayRepo{}, &memoryStudentRepo{}, assignments)

	_, err := svc.Submit(context.Background(), Actor{ID: 1, Email: "x@example.com", Role: models.RoleStudent, Section: "A"}, dto.EssaySubmitRequest{
		AssignmentID: 1,
		Title:        "Essay",
		Content:      "body",
	})
	require.ErrorIs(t, err, ErrSectionNotAllowed)
}

func TestEssayServiceSubmitPastDue(t *testing.T) {
	assignments := &memoryAssignmentRepo{}
	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		Title:      "Closed",
		DueDate:    time.Now().Add(-time.Hour),
		TotalMarks: 100,
	}))
	svc := newEssayService(&memoryEssayRepo{}, &memoryStudentRepo{}, assignments)

	_, err := svc.Submit(context.Background(), Actor{ID: 1, Email: "x@example.com", Role: models.RoleStudent, Section: "A"}, dto.EssaySubmitRequest{
		AssignmentID: 1,
		Title:        "Essay",
		Content:      "body",
	})
	require.ErrorIs(t, err, ErrPastDue)
}

func TestEssayServiceSubmitCreatesRosterRecord(t *testing.T) {
	assignments := &memoryAssignmentRepo{}
	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		Title:      "Open",
		DueDate:    time.Now().Add(24 * time.Hour),
		TotalMarks: 100,
		Sections:   []string{"A"},
	}))
	students := &memoryStudentRepo{}
	essays := &memoryEssayRepo{}
	svc := newEssayService(essays, students, assignments)

	actor := Actor{ID: 5, Email: "jane@example.com", Role: models.RoleStudent, Section: "A"}
	response, err := svc.Submit(context.Background(), actor, dto.EssaySubmitRequest{
		AssignmentID: 1,
		Title:        "My Essay",
		Content:      "<script>alert(1)</script>Hello",
	})
	require.NoError(t, err)
	require.Equal(t, "Hello", response.Content)
	require.Equal(t, "jane@example.com", response.StudentRoll)
	require.Equal(t, "A", response.StudentSection)
	require.Nil(t, response.Grade)

	student, err := students.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Equal(t, "jane", student.Name)
	require.Equal(t, "jane@example.com", student.Roll)
	require.Equal(t, "A", student.Section)

	_, err = svc.Submit(context.Background(), actor, dto.EssaySubmitRequest{
		AssignmentID: 1,
		Title:        "Second Try",
		Content:      "again",
	})
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	require.Len(t, essays.essays, 1)
}

func TestEssayServiceSubmitDuplicateRace(t *testing.T) {
	assignments := &memoryAssignmentRepo{}
	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		Title:      "Open",
		DueDate:    time.Now().Add(24 * time.Hour),
		TotalMarks: 100,
	}))
	essays := &memoryEssayRepo{createErr: gorm.ErrDuplicatedKey}
	svc := newEssayService(essays, &memoryStudentRepo{}, assignments)

	_, err := svc.Submit(context.Background(), Actor{ID: 1, Email: "x@example.com", Role: models.RoleStudent, Section: "A"}, dto.EssaySubmitRequest{
		AssignmentID: 1,
		Title:        "Essay",
		Content:      "body",
	})
	require.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestEssayServiceGradeDirectDerivesLetterAndGPA(t *testing.T) {
	assignments := &memoryAssignmentRepo{}
	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		Title:      "Open",
		DueDate:    time.Now().Add(24 * time.Hour),
		TotalMarks: 100,
	}))
	students := &memoryStudentRepo{}
	svc := newEssayService(&memoryEssayRepo{}, students, assignments)

	response, err := svc.GradeDirect(context.Background(), dto.EssayGradeRequest{
		StudentName:  "Y Student",
		StudentEmail: "y@example.com",
		StudentRoll:  "y@example.com",
		Title:        "Graded Essay",
		Content:      "content",
		Grade:        floatPtr(92),
		Feedback:     "well argued",
		AssignmentID: uintPtr(1),
	})
	require.NoError(t, err)
	require.NotNil(t, response.GradeLetter)
	require.Equal(t, "A", *response.GradeLetter)
	require.NotNil(t, response.GPA)
	require.Equal(t, 4.0, *response.GPA)

	student, err := students.GetByRoll(context.Background(), "y@example.com")
	require.NoError(t, err)
	require.Equal(t, "Y Student", student.Name)
}

func TestEssayServiceGradeDirectZeroScoreHasNoLetter(t *testing.T) {
	assignments := &memoryAssignmentRepo{}
	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		Title:      "Open",
		DueDate:    time.Now().Add(24 * time.Hour),
		TotalMarks: 100,
	}))
	svc := newEssayService(&memoryEssayRepo{}, &memoryStudentRepo{}, assignments)

	response, err := svc.GradeDirect(context.Background(), dto.EssayGradeRequest{
		StudentName:  "Y Student",
		StudentEmail: "y@example.com",
		StudentRoll:  "y@example.com",
		Title:        "Graded Essay",
		Content:      "content",
		Grade:        floatPtr(0),
		AssignmentID: uintPtr(1),
	})
	require.NoError(t, err)
	require.Nil(t, response.GradeLetter)
	require.Nil(t, response.GPA)
	require.NotNil(t, response.Grade)
}

func TestEssayServiceGradeDirectRegradesInPlace(t *testing.T) {
	assignments := &memoryAssignmentRepo{}
	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		Title:      "Open",
		DueDate:    time.Now().Add(24 * time.Hour),
		TotalMarks: 100,
	}))
	essays := &memoryEssayRepo{}
	svc := newEssayService(essays, &memoryStudentRepo{}, assignments)

	payload := dto.EssayGradeRequest{
		StudentName:  "Y Student",
		StudentEmail: "y@example.com",
		StudentRoll:  "y@example.com",
		Title:        "Graded Essay",
		Content:      "content",
		Grade:        floatPtr(75),
		AssignmentID: uintPtr(1),
	}
	first, err := svc.GradeDirect(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, "C", *first.GradeLetter)

	payload.Grade = floatPtr(85)
	payload.Feedback = "improved"
	second, err := svc.GradeDirect(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "B", *second.GradeLetter)
	require.Equal(t, "improved", second.Feedback)
	require.Len(t, essays.essays, 1)
}

func TestEssayServiceGradeDirectEvaluationOverrides(t *testing.T) {
	assignments := &memoryAssignmentRepo{}
	require.NoError(t, assignments.Create(context.Background(), &models.Assignment{
		Title:      "Open",
		DueDate:    time.Now().Add(24 * time.Hour),
		TotalMarks: 100,
	}))
	svc := newEssayService(&memoryEssayRepo{}, &memoryStudentRepo{}, assignments)

	response, err := svc.GradeDirect(context.Background(), dto.EssayGradeRequest{
		StudentName:  "Y Student",
		StudentEmail: "y@example.com",
		StudentRoll:  "y@example.com",
		Title:        "Graded Essay",
		Content:      "content",
		Grade:        floatPtr(92),
		AssignmentID: uintPtr(1),
		Evaluation: map[string]interface{}{
			"grade_letter": "B",
			"gpa":          3.0,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "B", *response.GradeLetter)
	require.Equal(t, 3.0, *response.GPA)
}

func TestEssayServiceEvaluateWithoutBackend(t *testing.T) {
	svc := newEssayService(&memoryEssayRepo{}, &memoryStudentRepo{}, &memoryAssignmentRepo{})

	_, err := svc.Evaluate(context.Background(), dto.EssayEvaluateRequest{
		SubmissionText: "a submission long enough to pass validation",
	})
	require.ErrorIs(t, err, grader.ErrUnavailable)
}

func TestEssayServiceListByRollSelfOnly(t *testing.T) {
	essays := &memoryEssayRepo{}
	require.NoError(t, essays.Create(context.Background(), &models.Essay{
		Title:       "Essay",
		Content:     "body",
		StudentRoll: "me@example.com",
	}))
	svc := newEssayService(essays, &memoryStudentRepo{}, &memoryAssignmentRepo{})

	actor := Actor{ID: 1, Email: "me@example.com", Role: models.RoleStudent, Section: "A"}
	_, err := svc.ListByRoll(context.Background(), actor, "other@example.com")
	require.ErrorIs(t, err, ErrOwnSubmissionsOnly)

	own, err := svc.ListByRoll(context.Background(), actor, "me@example.com")
	require.NoError(t, err)
	require.Len(t, own, 1)

	staff, err := svc.ListByRoll(context.Background(), Actor{ID: 2, Email: "t@example.com", Role: models.RoleTeacher}, "me@example.com")
	require.NoError(t, err)
	require.Len(t, staff, 1)
}

func TestEssayServiceListMineWithoutRoster(t *testing.T) {
	svc := newEssayService(&memoryEssayRepo{}, &memoryStudentRepo{}, &memoryAssignmentRepo{})

	essays, err := svc.ListMine(context.Background(), Actor{ID: 1, Email: "new@example.com", Role: models.RoleStudent})
	require.NoError(t, err)
	require.Empty(t, essays)
}
