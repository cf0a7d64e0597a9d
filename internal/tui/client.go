package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// timerState is what the watch view needs from GET /api/timer/current.
type timerState struct {
	Running   bool
	TaskID    string
	TaskTitle string
	StartedAt time.Time
}

// apiClient is a minimal client for the stamm HTTP API
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// CurrentTimer fetches the user's active timer, if any
func (c *apiClient) CurrentTimer() (*timerState, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/timer/current", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ActiveTimer *struct {
				TaskID    string    `json:"task_id"`
				StartedAt time.Time `json:"started_at"`
			} `json:"active_timer"`
			Task *struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"task"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	if body.Data.ActiveTimer == nil {
		return &timerState{Running: false}, nil
	}
	state := &timerState{
		Running:   true,
		TaskID:    body.Data.ActiveTimer.TaskID,
		StartedAt: body.Data.ActiveTimer.StartedAt,
	}
	if body.Data.Task != nil {
		state.TaskTitle = body.Data.Task.Title
	}
	return state, nil
}
