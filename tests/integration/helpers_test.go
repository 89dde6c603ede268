//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

type matchState struct {
	MatchID string `json:"match_id"`
	Phase   string `json:"phase"`
	Seq     uint64 `json:"seq"`
	Active  *struct {
		Question struct {
			ID      string   `json:"id"`
			Type    string   `json:"type"`
			Answers []string `json:"answers"`
		} `json:"question"`
		Owner string `json:"owner"`
	} `json:"active"`
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func doJSON(t *testing.T, method, url string, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

// createMatch starts a short match between two fresh players. Tests skip when
// the server has no questions seeded for the subject.
func createMatch(t *testing.T, baseURL string, questions int) matchState {
	t.Helper()

	suffix := time.Now().UnixNano()
	payload := map[string]any{
		"players": []map[string]any{
			{"id": fmt.Sprintf("it-a-%d", suffix), "display_name": "Alpha", "grade": 3},
			{"id": fmt.Sprintf("it-b-%d", suffix), "display_name": "Beta", "grade": 3},
		},
		"subject":           envOrDefault("INTEGRATION_SUBJECT", "math"),
		"termination_mode":  "question_count",
		"termination_value": questions,
	}

	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/matches", baseURL), payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var errResp map[string]any
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("expected 201, got %d, error: %v", resp.StatusCode, errResp)
	}

	var out matchState
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode match response failed: %v", err)
	}
	if out.Phase == "finished" {
		t.Skip("question pool is empty on the target server")
	}
	return out
}
