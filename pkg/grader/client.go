package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	evalDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "essay",
		Subsystem: "grader",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of scoring oracle requests",
	}, []string{"backend"})

	evalFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "essay",
		Subsystem: "grader",
		Name:      "evaluation_failures_total",
		Help:      "Number of scoring oracle failures",
	}, []string{"backend"})
)

// ClientConfig configures the HTTP oracle client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client implements Evaluator against the scoring oracle's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient builds an oracle client from the provided configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("grader base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  cfg.Logger.With().Str("component", "grader_client").Logger(),
	}, nil
}

type gradeRequest struct {
	SubmissionText string   `json:"submission_text"`
	StudentName    string   `json:"student_name,omitempty"`
	AssignmentID   string   `json:"assignment_id,omitempty"`
	TotalMarks     *float64 `json:"total_marks,omitempty"`
}

// Evaluate posts the submission to the oracle's /grade endpoint. Transport
// failures and 5xx answers are reported as ErrUnavailable; the caller is
// expected to surface that distinctly and not to retry on its own.
func (c *Client) Evaluate(ctx context.Context, input EvaluationInput) (EvaluationResult, error) {
	payload := gradeRequest{
		SubmissionText: input.SubmissionText,
		StudentName:    input.StudentName,
		AssignmentID:   input.AssignmentID,
	}
	if input.TotalMarks > 0 {
		marks := input.TotalMarks
		payload.TotalMarks = &marks
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("encode grade request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/grade", bytes.NewReader(body))
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("build grade request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	evalDuration.WithLabelValues("http").Observe(time.Since(start).Seconds())
	if err != nil {
		evalFailures.WithLabelValues("http").Inc()
		c.logger.Warn().Err(err).Msg("scoring oracle unreachable")
		return EvaluationResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		evalFailures.WithLabelValues("http").Inc()
		return EvaluationResult{}, fmt.Errorf("%w: oracle returned status %d", ErrUnavailable, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		evalFailures.WithLabelValues("http").Inc()
		return EvaluationResult{}, fmt.Errorf("oracle rejected request with status %d", resp.StatusCode)
	}

	var result EvaluationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		evalFailures.WithLabelValues("http").Inc()
		return EvaluationResult{}, fmt.Errorf("decode grade response: %w", err)
	}

	if result.Score == 0 && result.NormalizedScore != 0 {
		result.Score = result.NormalizedScore
	}

	return result, nil
}
