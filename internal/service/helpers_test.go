package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/essay-api/internal/models"
	"github.com/noah-isme/essay-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func floatPtr(v float64) *float64 {
	return &v
}

func uintPtr(v uint) *uint {
	return &v
}

type memoryUserRepo struct {
	users  []models.User
	nextID uint
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users = append(r.users, *user)
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memoryStudentRepo struct {
	students []models.Student
	nextID   uint
}

func (r *memoryStudentRepo) List(_ context.Context, section string) ([]models.Student, error) {
	if section == "" {
		return append([]models.Student{}, r.students...), nil
	}
	var filtered []models.Student
	for _, student := range r.students {
		if student.Section == section {
			filtered = append(filtered, student)
		}
	}
	return filtered, nil
}

func (r *memoryStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	for _, student := range r.students {
		if student.ID == id {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (r *memoryStudentRepo) GetByEmail(_ context.Context, email string) (models.Student, error) {
	for _, student := range r.students {
		if student.Email == email {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (r *memoryStudentRepo) GetByRoll(_ context.Context, roll string) (models.Student, error) {
	for _, student := range r.students {
		if student.Roll == roll {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (r *memoryStudentRepo) Create(_ context.Context, student *models.Student) error {
	r.nextID++
	student.ID = r.nextID
	r.students = append(r.students, *student)
	return nil
}

func (r *memoryStudentRepo) Update(_ context.Context, student *models.Student) error {
	for i := range r.students {
		if r.students[i].ID == student.ID {
			r.students[i] = *student
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memoryAssignmentRepo struct {
	assignments []models.Assignment
	nextID      uint
}

func (r *memoryAssignmentRepo) List(_ context.Context) ([]models.Assignment, error) {
	return append([]models.Assignment{}, r.assignments...), nil
}

func (r *memoryAssignmentRepo) GetByID(_ context.Context, id uint) (models.Assignment, error) {
	for _, assignment := range r.assignments {
		if assignment.ID == id {
			return assignment, nil
		}
	}
	return models.Assignment{}, gorm.ErrRecordNotFound
}

func (r *memoryAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	r.nextID++
	assignment.ID = r.nextID
	r.assignments = append(r.assignments, *assignment)
	return nil
}

type memoryEssayRepo struct {
	essays    []models.Essay
	nextID    uint
	createErr error
}

func (r *memoryEssayRepo) List(_ context.Context, filter repository.EssayFilter) ([]models.Essay, error) {
	var matched []models.Essay
	for _, essay := range r.essays {
		if filter.AssignmentID != nil {
			if essay.AssignmentID == nil || *essay.AssignmentID != *filter.AssignmentID {
				continue
			}
		}
		if filter.StudentRoll != nil && essay.StudentRoll != *filter.StudentRoll {
			continue
		}
		matched = append(matched, essay)
	}
	return matched, nil
}

func (r *memoryEssayRepo) GetByID(_ context.Context, id uint) (models.Essay, error) {
	for _, essay := range r.essays {
		if essay.ID == id {
			return essay, nil
		}
	}
	return models.Essay{}, gorm.ErrRecordNotFound
}

func (r *memoryEssayRepo) GetByRollAndAssignment(_ context.Context, roll string, assignmentID *uint) (models.Essay, error) {
	for _, essay := range r.essays {
		if essay.StudentRoll != roll {
			continue
		}
		if assignmentID == nil {
			if essay.AssignmentID == nil {
				return essay, nil
			}
			continue
		}
		if essay.AssignmentID != nil && *essay.AssignmentID == *assignmentID {
			return essay, nil
		}
	}
	return models.Essay{}, gorm.ErrRecordNotFound
}

func (r *memoryEssayRepo) Create(_ context.Context, essay *models.Essay) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	essay.ID = r.nextID
	r.essays = append(r.essays, *essay)
	return nil
}

func (r *memoryEssayRepo) Update(_ context.Context, essay *models.Essay) error {
	for i := range r.essays {
		if r.essays[i].ID == essay.ID {
			r.essays[i] = *essay
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var (
	_ repository.UserRepository       = (*memoryUserRepo)(nil)
	_ repository.StudentRepository    = (*memoryStudentRepo)(nil)
	_ repository.AssignmentRepository = (*memoryAssignmentRepo)(nil)
	_ repository.EssayRepository      = (*memoryEssayRepo)(nil)
)
