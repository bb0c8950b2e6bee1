package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ProviderSession drives a hosted real-time call through the provider's
// REST control surface. Audio streams browser-to-provider; this side
// only starts, stops and mutes the call, and the transcripts come back
// through the webhook Dispatcher.
type ProviderSession struct {
	baseURL     string
	apiKey      string
	assistantID string
	httpClient  *http.Client

	mu     sync.Mutex
	callID string
}

func NewProviderSession(baseURL, apiKey, assistantID string) *ProviderSession {
	return &ProviderSession{
		baseURL:     baseURL,
		apiKey:      apiKey,
		assistantID: assistantID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ProviderSession) doRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// Start creates a call against the configured assistant and remembers
// its id for later control requests.
func (s *ProviderSession) Start(ctx context.Context) error {
	respBody, err := s.doRequest(ctx, http.MethodPost, "/call", map[string]string{
		"assistantId": s.assistantID,
	})
	if err != nil {
		return err
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return fmt.Errorf("failed to decode call response: %w", err)
	}
	if created.ID == "" {
		return fmt.Errorf("provider returned no call id")
	}
	s.mu.Lock()
	s.callID = created.ID
	s.mu.Unlock()
	return nil
}

func (s *ProviderSession) Stop() error {
	s.mu.Lock()
	callID := s.callID
	s.mu.Unlock()
	if callID == "" {
		return fmt.Errorf("no call in progress")
	}
	_, err := s.doRequest(context.Background(), http.MethodPost, "/call/"+callID+"/control", map[string]string{
		"type": "end-call",
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.callID = ""
	s.mu.Unlock()
	return nil
}

func (s *ProviderSession) SetMuted(muted bool) error {
	s.mu.Lock()
	callID := s.callID
	s.mu.Unlock()
	if callID == "" {
		return fmt.Errorf("no call in progress")
	}
	typ := "unmute"
	if muted {
		typ = "mute"
	}
	_, err := s.doRequest(context.Background(), http.MethodPost, "/call/"+callID+"/control", map[string]string{
		"type": typ,
	})
	return err
}
