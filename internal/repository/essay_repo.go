package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/essay-api/internal/models"
)

// EssayFilter narrows essay queries.
type EssayFilter struct {
	AssignmentID *uint
	StudentRoll  *string
}

// EssayRepository defines data operations for essay submissions.
type EssayRepository interface {
	List(ctx context.Context, filter EssayFilter) ([]models.Essay, error)
	GetByID(ctx context.Context, id uint) (models.Essay, error)
	GetByRollAndAssignment(ctx context.Context, roll string, assignmentID *uint) (models.Essay, error)
	Create(ctx context.Context, essay *models.Essay) error
	Update(ctx context.Context, essay *models.Essay) error
}

type essayRepository struct {
	db *gorm.DB
}

// NewEssayRepository instantiates the repository.
func NewEssayRepository(db *gorm.DB) EssayRepository {
	return &essayRepository{db: db}
}

func (r *essayRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Essay{}).Preload("Assignment")
}

func (r *essayRepository) List(ctx context.Context, filter EssayFilter) ([]models.Essay, error) {
	query := r.baseQuery(ctx)

	if filter.AssignmentID != nil {
		query = query.Where("assignment_id = ?", *filter.AssignmentID)
	}

	if filter.StudentRoll != nil {
		query = query.Where("student_roll = ?", *filter.StudentRoll)
	}

	var essays []models.Essay
	if err := query.Order("created_at DESC").Find(&essays).Error; err != nil {
		return nil, err
	}

	return essays, nil
}

func (r *essayRepository) GetByID(ctx context.Context, id uint) (models.Essay, error) {
	var essay models.Essay
	if err := r.baseQuery(ctx).First(&essay, "essays.id = ?", id).Error; err != nil {
		return models.Essay{}, err
	}

	return essay, nil
}

func (r *essayRepository) GetByRollAndAssignment(ctx context.Context, roll string, assignmentID *uint) (models.Essay, error) {
	query := r.baseQuery(ctx).Where("student_roll = ?", roll)
	if assignmentID != nil {
		query = query.Where("assignment_id = ?", *assignmentID)
	} else {
		query = query.Where("assignment_id IS NULL")
	}

	var essay models.Essay
	if err := query.First(&essay).Error; err != nil {
		return models.Essay{}, err
	}

	return essay, nil
}

func (r *essayRepository) Create(ctx context.Context, essay *models.Essay) error {
	return r.db.WithContext(ctx).Create(essay).Error
}

func (r *essayRepository) Update(ctx context.Context, essay *models.Essay) error {
	return r.db.WithContext(ctx).Save(essay).Error
}
