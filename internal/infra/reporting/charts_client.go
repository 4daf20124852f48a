package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "novedad_notification_service/internal/domain/reporting"
)

// ChartsClient reaches the external chart-rendering collaborator: it posts a
// statistics payload and receives the encoded image bytes back.
type ChartsClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewChartsClient(baseURL string) *ChartsClient {
	return &ChartsClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

func (c *ChartsClient) Render(ctx context.Context, stats domain.Stats) ([]byte, error) {
	body, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize chart payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach chart collaborator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chart collaborator returned status %d: %s", resp.StatusCode, string(respBody))
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart image: %w", err)
	}
	return image, nil
}
