package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/casetrail/evidence-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves a canned chat completion whose message content
// is the given payload
func newTestServer(t *testing.T, payload string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		resp := map[string]interface{}{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o",
			"choices": []map[string]interface{}{
				{
					"index": 0,
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": payload,
					},
					"finish_reason": "stop",
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: baseURL + "/v1",
		Model:   "gpt-4o",
	})
}

func TestClient_Analyze(t *testing.T) {
	server := newTestServer(t, `{"summary":"One event.","findings":[{"startTime":10,"endTime":12,"summary":"Person enters","confidence":0.9}]}`, http.StatusOK)
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.Analyze(context.Background(), AnalysisRequest{
		EvidenceReference: "abc123.mp4",
		EvidenceName:      "lobby.mp4",
		Prompt:            "When does anyone enter?",
	})
	require.NoError(t, err)

	assert.Equal(t, "One event.", result.Summary)
	require.Len(t, result.Events, 1)
	assert.Equal(t, 10.0, result.Events[0].FromTime)
}

func TestClient_Analyze_EmptyFindings(t *testing.T) {
	server := newTestServer(t, `{"summary":"Nothing relevant.","findings":[]}`, http.StatusOK)
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.Analyze(context.Background(), AnalysisRequest{
		EvidenceReference: "abc123.mp4",
		Prompt:            "Anything?",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Events)
}

func TestClient_Analyze_UnparseableResponse(t *testing.T) {
	server := newTestServer(t, "I am unable to help with that.", http.StatusOK)
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Analyze(context.Background(), AnalysisRequest{
		EvidenceReference: "abc123.mp4",
		Prompt:            "Anything?",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInferenceFailure))
}

func TestClient_Analyze_ServerError(t *testing.T) {
	server := newTestServer(t, "", http.StatusInternalServerError)
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Analyze(context.Background(), AnalysisRequest{
		EvidenceReference: "abc123.mp4",
		Prompt:            "Anything?",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInferenceFailure))
}
