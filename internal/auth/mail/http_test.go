package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPMailer(t *testing.T) {
	t.Run("Send", func(t *testing.T) {
		var got sendRequest
		var auth string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v3/mail/send", r.URL.Path)
			auth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		m := &HTTPMailer{
			APIKey:    "test-key",
			FromEmail: "noreply@example.com",
			FromName:  "Auth API",
			BaseURL:   srv.URL,
		}

		err := m.Send(context.Background(), Message{
			To:         "alice@example.com",
			TemplateID: "d-verify",
			Data:       map[string]string{"link": "https://example.com/email-verification?key=abc"},
		})
		require.NoError(t, err)

		require.Equal(t, "Bearer test-key", auth)
		require.Equal(t, "d-verify", got.TemplateID)
		require.Len(t, got.Personalizations, 1)
		require.Equal(t, "alice@example.com", got.Personalizations[0].To[0].Email)
		require.Equal(t, "https://example.com/email-verification?key=abc", got.Personalizations[0].DynamicTemplateData["link"])
		require.Equal(t, "noreply@example.com", got.From.Email)
	})

	t.Run("ProviderError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"errors":[{"message":"bad template"}]}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		m := &HTTPMailer{APIKey: "k", FromEmail: "x@example.com", BaseURL: srv.URL}
		err := m.Send(context.Background(), Message{To: "a@example.com", TemplateID: "d-x"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "400")
	})
}
