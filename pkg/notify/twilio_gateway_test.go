package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWhatsAppNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "international with plus",
			input:    "+919876543210",
			expected: "whatsapp:+919876543210",
		},
		{
			name:     "plus with spaces",
			input:    "+91 98765 43210",
			expected: "whatsapp:+919876543210",
		},
		{
			name:     "plus with dashes",
			input:    "+1-415-523-8886",
			expected: "whatsapp:+14155238886",
		},
		{
			name:     "bare digits",
			input:    "919876543210",
			expected: "whatsapp:+919876543210",
		},
		{
			name:     "digits with punctuation",
			input:    "(91) 98765-43210",
			expected: "whatsapp:+919876543210",
		},
		{
			name:     "surrounding whitespace",
			input:    "  +919876543210  ",
			expected: "whatsapp:+919876543210",
		},
		{
			name:     "empty",
			input:    "",
			expected: "whatsapp:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatWhatsAppNumber(tt.input))
		})
	}
}

func testConsultationData() *ConsultationData {
	return &ConsultationData{
		Name:             "Jane Doe",
		Email:            "jane@example.com",
		Phone:            "+919876543210",
		Category:         "Web Application",
		ConsultationDate: "2025-03-15",
		ConsultationTime: "10:00 AM",
		Message:          "Need help with my project",
	}
}

func TestTwilioGateway_NotConfigured(t *testing.T) {
	gateway := NewTwilioGateway(TwilioConfig{})

	assert.ErrorIs(t, gateway.SendTeamNotification(testConsultationData()), ErrNotConfigured)
	assert.ErrorIs(t, gateway.SendClientConfirmation(testConsultationData()), ErrNotConfigured)
}

func TestTwilioGateway_SendTeamNotification(t *testing.T) {
	var gotPath, gotFrom, gotTo, gotBody string
	var gotUser, gotPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotFrom = r.PostFormValue("From")
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	}))
	defer server.Close()

	gateway := NewTwilioGateway(TwilioConfig{
		AccountSID: "AC_test",
		AuthToken:  "token_test",
		FromNumber: "whatsapp:+14155238886",
		TeamNumber: "whatsapp:+19998887777",
		APIURL:     server.URL,
	})

	err := gateway.SendTeamNotification(testConsultationData())
	require.NoError(t, err)

	assert.Equal(t, "/2010-04-01/Accounts/AC_test/Messages.json", gotPath)
	assert.Equal(t, "AC_test", gotUser)
	assert.Equal(t, "token_test", gotPass)
	assert.Equal(t, "whatsapp:+14155238886", gotFrom)
	assert.Equal(t, "whatsapp:+19998887777", gotTo)
	assert.Contains(t, gotBody, "Jane Doe")
	assert.Contains(t, gotBody, "Web Application")
}

func TestTwilioGateway_TruncatesLongMessageOnRuneBoundary(t *testing.T) {
	var gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM789","status":"queued"}`))
	}))
	defer server.Close()

	gateway := NewTwilioGateway(TwilioConfig{
		AccountSID: "AC_test",
		AuthToken:  "token_test",
		FromNumber: "whatsapp:+14155238886",
		TeamNumber: "whatsapp:+19998887777",
		APIURL:     server.URL,
	})

	// 250 multi-byte runes; byte-based slicing would cut one in half
	data := testConsultationData()
	data.Message = strings.Repeat("й", 250)

	require.NoError(t, gateway.SendTeamNotification(data))

	assert.True(t, utf8.ValidString(gotBody), "message body must stay valid UTF-8")
	assert.Contains(t, gotBody, strings.Repeat("й", 200)+"...")
	assert.NotContains(t, gotBody, strings.Repeat("й", 201))
}

func TestTwilioGateway_SendClientConfirmation(t *testing.T) {
	var gotTo string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotTo = r.PostFormValue("To")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM456","status":"queued"}`))
	}))
	defer server.Close()

	gateway := NewTwilioGateway(TwilioConfig{
		AccountSID: "AC_test",
		AuthToken:  "token_test",
		FromNumber: "whatsapp:+14155238886",
		APIURL:     server.URL,
	})

	data := testConsultationData()
	data.Phone = "+91 98765 43210"

	require.NoError(t, gateway.SendClientConfirmation(data))
	assert.Equal(t, "whatsapp:+919876543210", gotTo)
}

func TestTwilioGateway_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Authentication Error"}`))
	}))
	defer server.Close()

	gateway := NewTwilioGateway(TwilioConfig{
		AccountSID: "AC_test",
		AuthToken:  "bad_token",
		FromNumber: "whatsapp:+14155238886",
		TeamNumber: "whatsapp:+19998887777",
		APIURL:     server.URL,
	})

	err := gateway.SendTeamNotification(testConsultationData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
