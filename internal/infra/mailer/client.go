package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "novedad_notification_service/internal/domain/mailer"
)

// HTTPClient reaches the external send collaborator over a simple
// request/response contract. The collaborator owns the actual SMTP
// transmission.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// sendPayload is the collaborator's wire format for one outbound message.
type sendPayload struct {
	ToEmail     string `json:"to_email"`
	ToName      string `json:"to_name"`
	Consecutivo string `json:"consecutivo"`
	PuestoID    int64  `json:"puesto_id"`
	EventTypeID int64  `json:"event_type_id"`
}

// Send posts one notification to the collaborator. Any non-2xx response is an
// error so the caller records the attempt as FAILED.
func (c *HTTPClient) Send(ctx context.Context, msg domain.Message) error {
	body, err := json.Marshal(sendPayload{
		ToEmail:     msg.ToEmail,
		ToName:      msg.ToName,
		Consecutivo: msg.Consecutive,
		PuestoID:    msg.PuestoID,
		EventTypeID: msg.EventTypeID,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize mailer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mailer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach mailer collaborator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailer collaborator returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
