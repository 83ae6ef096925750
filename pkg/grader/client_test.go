package grader

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestClientEvaluate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/grade", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "The essay argues that ...", payload["submission_text"])
		require.Equal(t, float64(100), payload["total_marks"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"score": 52,
			"normalized_score": 86.6,
			"feedback": "Solid work.",
			"strengths": ["varied vocabulary"],
			"improvements": ["longer paragraphs"],
			"metadata": {"word_count": 240}
		}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL, Logger: zerolog.New(io.Discard)})
	require.NoError(t, err)

	result, err := client.Evaluate(context.Background(), EvaluationInput{
		SubmissionText: "The essay argues that ...",
		StudentName:    "Ada",
		AssignmentID:   "7",
		TotalMarks:     100,
	})
	require.NoError(t, err)
	require.Equal(t, 52.0, result.Score)
	require.Equal(t, 86.6, result.NormalizedScore)
	require.Equal(t, "Solid work.", result.Feedback)
	require.Equal(t, []string{"varied vocabulary"}, result.Strengths)
}

func TestClientEvaluateUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	server.Close() // connection refused from here on

	client, err := NewClient(ClientConfig{BaseURL: server.URL, Timeout: time.Second, Logger: zerolog.New(io.Discard)})
	require.NoError(t, err)

	_, err = client.Evaluate(context.Background(), EvaluationInput{SubmissionText: "text"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnavailable))
}

func TestClientEvaluateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL, Logger: zerolog.New(io.Discard)})
	require.NoError(t, err)

	_, err = client.Evaluate(context.Background(), EvaluationInput{SubmissionText: "text"})
	require.True(t, errors.Is(err, ErrUnavailable))
}

func TestClientEvaluateFallsBackToNormalizedScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"normalized_score": 73.5, "feedback": "", "strengths": [], "improvements": []}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL, Logger: zerolog.New(io.Discard)})
	require.NoError(t, err)

	result, err := client.Evaluate(context.Background(), EvaluationInput{SubmissionText: "text"})
	require.NoError(t, err)
	require.Equal(t, 73.5, result.Score)
}
