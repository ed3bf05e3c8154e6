package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPMailer talks to a SendGrid-compatible v3 mail API using dynamic
// templates.
type HTTPMailer struct {
	APIKey    string
	FromEmail string
	FromName  string

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// Client defaults to a client with a 10 second timeout.
	Client *http.Client
}

const defaultBaseURL = "https://api.sendgrid.com"

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	TemplateID       string            `json:"template_id"`
}

type personalization struct {
	To                  []address         `json:"to"`
	DynamicTemplateData map[string]string `json:"dynamic_template_data,omitempty"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	payload := sendRequest{
		Personalizations: []personalization{{
			To:                  []address{{Email: msg.To}},
			DynamicTemplateData: msg.Data,
		}},
		From:       address{Email: m.FromEmail, Name: m.FromName},
		TemplateID: msg.TemplateID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	base := m.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := m.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("mail: send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail: provider returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
