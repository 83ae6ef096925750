package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig defines configuration options for the OpenAI-backed evaluator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIEvaluator implements Evaluator against the OpenAI chat completion API.
// It is used as a fallback backend when no dedicated scoring service is
// deployed.
type OpenAIEvaluator struct {
	client *openai.Client
	cfg    OpenAIConfig
	logger zerolog.Logger
}

// NewOpenAIEvaluator builds a new evaluator using the provided configuration.
func NewOpenAIEvaluator(cfg OpenAIConfig) (*OpenAIEvaluator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 768
	}

	return &OpenAIEvaluator{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "openai_evaluator").Logger(),
	}, nil
}

// Evaluate sends the essay to OpenAI and parses the structured response.
func (e *OpenAIEvaluator) Evaluate(ctx context.Context, input EvaluationInput) (EvaluationResult, error) {
	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: evaluatorSystemPrompt(input.TotalMarks),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildEssayPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := e.client.CreateChatCompletion(ctx, request)
	evalDuration.WithLabelValues("openai").Observe(time.Since(start).Seconds())
	if err != nil {
		evalFailures.WithLabelValues("openai").Inc()
		return EvaluationResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		evalFailures.WithLabelValues("openai").Inc()
		return EvaluationResult{}, fmt.Errorf("no choices returned from openai")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result, err := parseEvaluationResponse(content)
	if err != nil {
		evalFailures.WithLabelValues("openai").Inc()
		return EvaluationResult{}, err
	}

	if result.Metadata == nil {
		result.Metadata = map[string]interface{}{}
	}
	result.Metadata["model"] = resp.Model
	result.Metadata["total_tokens"] = resp.Usage.TotalTokens

	return result, nil
}

func evaluatorSystemPrompt(totalMarks float64) string {
	scale := "0-100"
	if totalMarks > 0 {
		scale = "0-" + strconv.FormatFloat(totalMarks, 'f', -1, 64)
	}
	return "You are an essay grader. Respond with a JSON object containing score (" + scale + "), " +
		"feedback (a short paragraph), strengths (list of strings), and improvements (list of strings). " +
		"Judge structure, argumentation, vocabulary, and clarity."
}

func buildEssayPrompt(input EvaluationInput) string {
	builder := strings.Builder{}
	builder.WriteString("## Essay\n")
	builder.WriteString(input.SubmissionText)
	if input.StudentName != "" {
		builder.WriteString("\n\n## Student\n")
		builder.WriteString(input.StudentName)
	}
	if input.AssignmentID != "" {
		builder.WriteString("\n\n## Assignment\n")
		builder.WriteString(input.AssignmentID)
	}
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func parseEvaluationResponse(content string) (EvaluationResult, error) {
	// Some models wrap JSON in a fenced block despite the response format hint.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result EvaluationResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return EvaluationResult{}, fmt.Errorf("parse evaluation response: %w", err)
	}

	if result.NormalizedScore == 0 {
		result.NormalizedScore = result.Score
	}

	return result, nil
}
