package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/essay-api/internal/dto"
	"github.com/noah-isme/essay-api/internal/models"
	"github.com/noah-isme/essay-api/internal/repository"
)

// DashboardService produces a student's progress summary across the
// assignments visible to their section.
type DashboardService interface {
	Summary(ctx context.Context, actor Actor) (dto.DashboardResponse, error)
}

type dashboardService struct {
	assignments repository.AssignmentRepository
	essays      repository.EssayRepository
	students    repository.StudentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. The cache client may be
// nil; summaries are then computed on every call.
func NewDashboardService(assignments repository.AssignmentRepository, essays repository.EssayRepository, students repository.StudentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		assignments: assignments,
		essays:      essays,
		students:    students,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Summary(ctx context.Context, actor Actor) (dto.DashboardResponse, error) {
	if !actor.IsStudent() {
		return dto.DashboardResponse{}, ErrStudentsOnly
	}

	cacheKey := fmt.Sprintf("dashboard:student:%d", actor.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", actor.ID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	response, err := s.build(ctx, actor)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) build(ctx context.Context, actor Actor) (dto.DashboardResponse, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	var essays []models.Essay
	student, err := s.students.GetByEmail(ctx, actor.Email)
	if err == nil {
		essays, err = s.essays.List(ctx, repository.EssayFilter{StudentRoll: &student.Roll})
		if err != nil {
			return dto.DashboardResponse{}, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.DashboardResponse{}, err
	}

	essayByAssignment := make(map[uint]models.Essay, len(essays))
	for _, essay := range essays {
		if essay.AssignmentID != nil {
			essayByAssignment[*essay.AssignmentID] = essay
		}
	}

	response := dto.DashboardResponse{}
	var gpaTotal float64
	var gpaCount int

	for _, assignment := range assignments {
		if !assignment.AllowsSection(actor.Section) {
			continue
		}
		response.TotalAssignments++

		essay, submitted := essayByAssignment[assignment.ID]
		if !submitted {
			response.Pending++
			continue
		}

		response.Submitted++
		if essay.IsGraded() {
			response.Graded++
			if essay.GPA != nil {
				gpaTotal += *essay.GPA
				gpaCount++
			}
		}
	}

	if gpaCount > 0 {
		average := gpaTotal / float64(gpaCount)
		response.AverageGPA = &average
	}

	return response, nil
}
