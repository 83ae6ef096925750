package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/essay-api/internal/dto"
	"github.com/noah-isme/essay-api/internal/handler"
	"github.com/noah-isme/essay-api/internal/service"
)

type stubRosterService struct {
	createErr   error
	updateCalls int
}

func (s *stubRosterService) Create(_ context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if s.createErr != nil {
		return dto.StudentResponse{}, s.createErr
	}
	return dto.StudentResponse{ID: 1, Name: payload.Name, Email: payload.Email, Roll: payload.Roll}, nil
}

func (s *stubRosterService) List(_ context.Context, _ service.Actor, _ string) ([]dto.StudentResponse, error) {
	return []dto.StudentResponse{}, nil
}

func (s *stubRosterService) UpdateSection(_ context.Context, id uint, section string) (dto.StudentResponse, error) {
	s.updateCalls++
	return dto.StudentResponse{ID: id, Section: section}, nil
}

type stubDashboardService struct {
	response dto.DashboardResponse
	err      error
}

func (s *stubDashboardService) Summary(_ context.Context, _ service.Actor) (dto.DashboardResponse, error) {
	if s.err != nil {
		return dto.DashboardResponse{}, s.err
	}
	return s.response, nil
}

func newStudentApp(roster service.RosterService, dashboard service.DashboardService, role string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/students", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(4))
		c.Locals("user_email", "jane@example.com")
		c.Locals("user_role", role)
		c.Locals("user_section", "A")
		return c.Next()
	})
	handler.NewStudentHandler(roster, dashboard, zerolog.Nop()).Register(group)
	return app
}

func TestStudentHandlerCreateConflict(t *testing.T) {
	roster := &stubRosterService{createErr: service.ErrStudentExists}
	app := newStudentApp(roster, &stubDashboardService{}, "admin")

	body, err := json.Marshal(dto.StudentCreateRequest{Name: "Jane", Email: "jane@example.com", Roll: "1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestStudentHandlerSectionUpdateAdminOnly(t *testing.T) {
	roster := &stubRosterService{}
	app := newStudentApp(roster, &stubDashboardService{}, "teacher")

	body, err := json.Marshal(dto.StudentSectionRequest{Section: "B"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/students/1/section", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, 0, roster.updateCalls)
}

func TestStudentHandlerSectionUpdateAsAdmin(t *testing.T) {
	roster := &stubRosterService{}
	app := newStudentApp(roster, &stubDashboardService{}, "admin")

	body, err := json.Marshal(dto.StudentSectionRequest{Section: "B"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/students/1/section", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, roster.updateCalls)
}

func TestStudentHandlerDashboard(t *testing.T) {
	average := 3.5
	dashboard := &stubDashboardService{response: dto.DashboardResponse{
		TotalAssignments: 4,
		Submitted:        3,
		Graded:           2,
		Pending:          1,
		AverageGPA:       &average,
	}}
	app := newStudentApp(&stubRosterService{}, dashboard, "student")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/me/dashboard", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                  `json:"success"`
		Data    dto.DashboardResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()

	require.True(t, payload.Success)
	require.Equal(t, 4, payload.Data.TotalAssignments)
	require.NotNil(t, payload.Data.AverageGPA)
	require.Equal(t, 3.5, *payload.Data.AverageGPA)
}

func TestStudentHandlerDashboardStudentsOnly(t *testing.T) {
	dashboard := &stubDashboardService{err: service.ErrStudentsOnly}
	app := newStudentApp(&stubRosterService{}, dashboard, "teacher")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/me/dashboard", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

var (
	_ service.RosterService    = (*stubRosterService)(nil)
	_ service.DashboardService = (*stubDashboardService)(nil)
)
