package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultResendAPIURL = "https://api.resend.com"

// ResendGateway sends transactional email via the Resend HTTP API
type ResendGateway struct {
	apiKey      string
	fromAddress string
	teamAddress string
	apiURL      string
	client      *http.Client
}

// ResendConfig holds configuration for the Resend email gateway
type ResendConfig struct {
	APIKey      string
	FromAddress string
	TeamAddress string
	APIURL      string // Optional, defaults to the public Resend endpoint
}

// NewResendGateway creates a new Resend email gateway client
func NewResendGateway(config ResendConfig) *ResendGateway {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = defaultResendAPIURL
	}
	return &ResendGateway{
		apiKey:      config.APIKey,
		fromAddress: config.FromAddress,
		teamAddress: config.TeamAddress,
		apiURL:      apiURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// sendEmailRequest is the Resend /emails payload
type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// sendEmailResponse is the Resend /emails response
type sendEmailResponse struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

// GetName returns the gateway name
func (g *ResendGateway) GetName() string {
	return "Resend"
}

// SendTeamNotification emails the internal team about a new booking
func (g *ResendGateway) SendTeamNotification(data *ConsultationData) error {
	if g.apiKey == "" || g.teamAddress == "" {
		return ErrNotConfigured
	}

	subject := fmt.Sprintf("New Consultation Request - %s", data.Category)
	html := fmt.Sprintf(`<h2>New Consultation Request</h2>
<p><strong>Client:</strong> %s</p>
<p><strong>Category:</strong> %s</p>
<p><strong>Date:</strong> %s</p>
<p><strong>Time:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>
<p>Please respond within 3 hours.</p>`,
		data.Name, data.Category, data.ConsultationDate, data.ConsultationTime,
		data.Email, data.Phone, data.Message)

	return g.send(g.teamAddress, subject, html)
}

// SendClientConfirmation emails the client a booking confirmation
func (g *ResendGateway) SendClientConfirmation(data *ConsultationData) error {
	if g.apiKey == "" {
		return ErrNotConfigured
	}

	subject := "Consultation Request Received - FixIt Studio"
	html := fmt.Sprintf(`<h2>Thank you, %s!</h2>
<p>Your consultation request has been received and your payment is confirmed.</p>
<p><strong>Scheduled:</strong> %s at %s</p>
<p><strong>Category:</strong> %s</p>
<p>Our team will contact you shortly.</p>
<p>- FixIt Studio</p>`,
		data.Name, data.ConsultationDate, data.ConsultationTime, data.Category)

	return g.send(data.Email, subject, html)
}

// send posts a single email to the Resend API
func (g *ResendGateway) send(to, subject, html string) error {
	payload := sendEmailRequest{
		From:    g.fromAddress,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	url := fmt.Sprintf("%s/emails", g.apiURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read email response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var emailResp sendEmailResponse
	if err := json.Unmarshal(body, &emailResp); err != nil {
		return fmt.Errorf("failed to parse email response: %w", err)
	}
	if emailResp.ID == "" {
		return fmt.Errorf("email gateway returned no message id")
	}

	return nil
}
