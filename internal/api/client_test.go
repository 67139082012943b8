package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "some text", req["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"id":1,"text":"some text","emotion_scores":{"joy":0.7,"anger":0.1},"hallucination_score":0.42,"created_at":"2024-03-01T10:00:00"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	result, err := client.Analyze(context.Background(), "some text")
	require.NoError(t, err)

	assert.Equal(t, "some text", result.Text)
	assert.InDelta(t, 0.42, result.HallucinationScore, 1e-9)
	assert.Equal(t, []string{"joy", "anger"}, result.EmotionScores.Labels())
}

func TestAnalyze_ErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"detail":"model not loaded"}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Analyze(context.Background(), "x")
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "model not loaded", Message(err, MsgAnalyzeFailed))
}

func TestAnalyze_ErrorWithoutDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not json", "<html>bad gateway</html>"},
		{"structured detail", `{"detail":[{"loc":["body","text"],"msg":"field required"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Analyze(context.Background(), "x")
			require.Error(t, err)
			assert.Equal(t, MsgAnalyzeFailed, Message(err, MsgAnalyzeFailed))
			assert.Contains(t, err.Error(), "502")
		})
	}
}

func TestAnalyze_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).Analyze(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, MsgAnalyzeFailed, Message(err, MsgAnalyzeFailed))
}

func TestAnalyze_Throttled(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, `{"id":1,"text":"x","emotion_scores":{},"hallucination_score":0.5}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithSubmitRate(2))
	for i := 0; i < 2; i++ {
		_, err := client.Analyze(context.Background(), "x")
		require.NoError(t, err)
	}

	_, err := client.Analyze(context.Background(), "x")
	require.ErrorIs(t, err, ErrThrottled)
	assert.Equal(t, ErrThrottled.Error(), Message(err, MsgAnalyzeFailed))
	assert.Equal(t, int32(2), hits.Load(), "throttled call sends no request")
}

func TestAnalyze_FailedSubmitKeepsBudget(t *testing.T) {
	var hits atomic.Int32
	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = fmt.Fprint(w, `{"id":1,"text":"x","emotion_scores":{},"hallucination_score":0.5}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithSubmitRate(2))
	for i := 0; i < 3; i++ {
		_, err := client.Analyze(context.Background(), "x")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrThrottled)
	}

	fail.Store(false)
	for i := 0; i < 2; i++ {
		_, err := client.Analyze(context.Background(), "x")
		require.NoError(t, err)
	}

	_, err := client.Analyze(context.Background(), "x")
	require.ErrorIs(t, err, ErrThrottled)
	assert.Equal(t, int32(5), hits.Load())
}

func TestFetchHistory_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/history", r.URL.Path)
		_, _ = fmt.Fprint(w, `[
			{"id":2,"text":"b","emotion_scores":{"joy":0.2},"hallucination_score":0.9,"created_at":"2024-03-02T00:00:00"},
			{"id":1,"text":"a","emotion_scores":{"fear":0.6},"hallucination_score":0.1,"created_at":"2024-03-01T00:00:00"}
		]`)
	}))
	defer server.Close()

	results, err := NewClient(server.URL).FetchHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].Text, "service order is kept")
	assert.Equal(t, "a", results[1].Text)
}

func TestFetchHistory_NullScoreKeepsRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `[
			{"id":2,"text":"b","emotion_scores":{"joy":0.7},"hallucination_score":0.9,"created_at":"2024-03-02T00:00:00"},
			{"id":1,"text":"a","emotion_scores":{"joy":null},"hallucination_score":0.1,"created_at":"2024-03-01T00:00:00"}
		]`)
	}))
	defer server.Close()

	results, err := NewClient(server.URL).FetchHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	score, ok := results[1].EmotionScores.Get("joy")
	assert.True(t, ok)
	assert.Zero(t, score)
}

func TestFetchHistory_EmptyAndNull(t *testing.T) {
	for _, body := range []string{"[]", "null"} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprint(w, body)
		}))

		results, err := NewClient(server.URL).FetchHistory(context.Background())
		server.Close()

		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestFetchHistory_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"detail":"db locked"}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).FetchHistory(context.Background())
	require.Error(t, err)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("  ").BaseURL())
	assert.Equal(t, "http://svc:8000", NewClient("http://svc:8000///").BaseURL())
}
