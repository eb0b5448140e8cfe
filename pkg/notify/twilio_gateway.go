package notify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const defaultTwilioAPIURL = "https://api.twilio.com"

var nonDigits = regexp.MustCompile(`\D`)

// TwilioGateway sends WhatsApp messages via the Twilio Messages API
type TwilioGateway struct {
	accountSID string
	authToken  string
	fromNumber string // whatsapp:+14155238886
	teamNumber string // whatsapp:+1234567890
	apiURL     string
	client     *http.Client
}

// TwilioConfig holds configuration for the Twilio WhatsApp gateway
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	TeamNumber string
	APIURL     string // Optional, defaults to the public Twilio endpoint
}

// NewTwilioGateway creates a new Twilio WhatsApp gateway client
func NewTwilioGateway(config TwilioConfig) *TwilioGateway {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = defaultTwilioAPIURL
	}
	return &TwilioGateway{
		accountSID: config.AccountSID,
		authToken:  config.AuthToken,
		fromNumber: config.FromNumber,
		teamNumber: config.TeamNumber,
		apiURL:     apiURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// createMessageResponse is the Twilio Messages API response
type createMessageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// GetName returns the gateway name
func (g *TwilioGateway) GetName() string {
	return "TwilioWhatsApp"
}

// FormatWhatsAppNumber converts a phone number to Twilio WhatsApp address
// format: whatsapp:+<country code><number>. International prefixes are
// preserved; all other non-digit characters are stripped.
func FormatWhatsAppNumber(phone string) string {
	cleanPhone := strings.TrimSpace(phone)

	if strings.HasPrefix(cleanPhone, "+") {
		cleanPhone = "+" + nonDigits.ReplaceAllString(cleanPhone, "")
	} else {
		cleanPhone = nonDigits.ReplaceAllString(cleanPhone, "")
		if cleanPhone != "" {
			cleanPhone = "+" + cleanPhone
		}
	}

	return "whatsapp:" + cleanPhone
}

// SendTeamNotification messages the internal team about a new booking
func (g *TwilioGateway) SendTeamNotification(data *ConsultationData) error {
	if g.accountSID == "" || g.authToken == "" || g.fromNumber == "" || g.teamNumber == "" {
		return ErrNotConfigured
	}

	// Truncate on rune boundaries so multi-byte text stays valid UTF-8
	message := data.Message
	if runes := []rune(message); len(runes) > 200 {
		message = string(runes[:200]) + "..."
	}

	body := fmt.Sprintf(`New Consultation Request

Client: %s
Category: %s
Date: %s
Time: %s

Contact:
%s
%s

Message:
%s

Please respond within 3 hours.
- FixIt Studio System`,
		data.Name, data.Category, data.ConsultationDate, data.ConsultationTime,
		data.Email, data.Phone, message)

	return g.send(g.teamNumber, body)
}

// SendClientConfirmation messages the client a booking confirmation
func (g *TwilioGateway) SendClientConfirmation(data *ConsultationData) error {
	if g.accountSID == "" || g.authToken == "" || g.fromNumber == "" {
		return ErrNotConfigured
	}

	body := fmt.Sprintf(`Hello %s, your consultation request has been received and your payment is confirmed.

Scheduled: %s at %s

Our team will contact you shortly.
- FixIt Studio`,
		data.Name, data.ConsultationDate, data.ConsultationTime)

	return g.send(FormatWhatsAppNumber(data.Phone), body)
}

// send posts one message through the Twilio Messages API
func (g *TwilioGateway) send(to, body string) error {
	form := url.Values{}
	form.Set("From", g.fromNumber)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", g.apiURL, g.accountSID)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(g.accountSID, g.authToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read message response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("message gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var msgResp createMessageResponse
	if err := json.Unmarshal(respBody, &msgResp); err != nil {
		return fmt.Errorf("failed to parse message response: %w", err)
	}
	if msgResp.SID == "" {
		return fmt.Errorf("message gateway returned no message sid")
	}

	return nil
}
