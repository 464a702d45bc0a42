package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strings"
	"testing"
	"time"

	"brieflinks/internal/config"
)

func newTestGmail(tokenURL, sendURL string) *Gmail {
	g := NewGmail(&config.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleTokenURL:     tokenURL,
		GmailSendURL:       sendURL,
	})
	g.now = func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) }
	return g
}

func tokenServer(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("token request is not a form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": accessToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
}

func TestGmailSend(t *testing.T) {
	tokenSrv := tokenServer(t, "fresh-access-token")
	defer tokenSrv.Close()

	var gotAuth string
	var gotRaw string
	sendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Raw string `json:"raw"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode send body: %v", err)
		}
		gotRaw = body.Raw
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "19a2f0b8c3d4e5f6"})
	}))
	defer sendSrv.Close()

	g := newTestGmail(tokenSrv.URL, sendSrv.URL)
	result, err := g.Send(context.Background(), SendParams{
		RefreshToken: "rt",
		From:         "creator@example.com",
		FromName:     "Creator",
		To:           "client@example.com",
		Subject:      "Hello",
		HTML:         "<p>Hi</p>",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if result.MessageID != "19a2f0b8c3d4e5f6" {
		t.Errorf("MessageID = %q", result.MessageID)
	}
	if result.AccessToken != "fresh-access-token" {
		t.Errorf("AccessToken = %q, want the freshly exchanged token", result.AccessToken)
	}
	if gotAuth != "Bearer fresh-access-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if _, err := base64.RawURLEncoding.DecodeString(gotRaw); err != nil {
		t.Errorf("raw payload is not base64url without padding: %v", err)
	}
}

func TestGmailSend_RejectedCredential(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid_grant"}`)
	}))
	defer tokenSrv.Close()

	g := newTestGmail(tokenSrv.URL, "http://unused.invalid")
	_, err := g.Send(context.Background(), SendParams{RefreshToken: "revoked"})
	if err == nil {
		t.Fatal("Send() expected error, got nil")
	}

	var exchangeErr *CredentialExchangeError
	if !errors.As(err, &exchangeErr) {
		t.Fatalf("error = %T, want *CredentialExchangeError", err)
	}
	if !strings.Contains(exchangeErr.Body, "invalid_grant") {
		t.Errorf("Body = %q, want the provider response", exchangeErr.Body)
	}
}

func TestGmailSend_APIError(t *testing.T) {
	tokenSrv := tokenServer(t, "token")
	defer tokenSrv.Close()

	sendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error":{"message":"insufficient scope"}}`)
	}))
	defer sendSrv.Close()

	g := newTestGmail(tokenSrv.URL, sendSrv.URL)
	_, err := g.Send(context.Background(), SendParams{RefreshToken: "rt"})
	if err == nil {
		t.Fatal("Send() expected error, got nil")
	}

	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("error = %T, want *SendError", err)
	}
	if sendErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", sendErr.StatusCode)
	}
	if !strings.Contains(sendErr.Body, "insufficient scope") {
		t.Errorf("Body = %q", sendErr.Body)
	}
}

func TestComposeRawMessage_RoundTrip(t *testing.T) {
	g := newTestGmail("http://unused.invalid", "http://unused.invalid")

	subject := "תזכורת: הבריף ממתין"
	htmlBody := `<html dir="rtl"><body>שלום</body></html>`
	raw := g.ComposeRawMessage("creator@example.com", "Creator Name", "client@example.com", subject, htmlBody)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("message does not parse: %v", err)
	}

	if got := msg.Header.Get("To"); got != "client@example.com" {
		t.Errorf("To = %q", got)
	}
	if got := msg.Header.Get("From"); !strings.Contains(got, "creator@example.com") || !strings.Contains(got, "Creator Name") {
		t.Errorf("From = %q", got)
	}

	dec := new(mime.WordDecoder)
	decodedSubject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
	if err != nil {
		t.Fatalf("subject does not decode: %v", err)
	}
	if decodedSubject != subject {
		t.Errorf("Subject = %q, want %q", decodedSubject, subject)
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("content type does not parse: %v", err)
	}
	if mediaType != "multipart/alternative" {
		t.Errorf("media type = %q", mediaType)
	}

	mr := multipart.NewReader(msg.Body, params["boundary"])
	part, err := mr.NextPart()
	if err != nil {
		t.Fatalf("no first part: %v", err)
	}
	if ct := part.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("part content type = %q", ct)
	}

	encoded, err := io.ReadAll(part)
	if err != nil {
		t.Fatalf("failed to read part: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
	if err != nil {
		t.Fatalf("body part is not base64: %v", err)
	}
	if string(decoded) != htmlBody {
		t.Errorf("body = %q, want %q", decoded, htmlBody)
	}

	if _, err := mr.NextPart(); err != io.EOF {
		t.Errorf("expected exactly one part, NextPart err = %v", err)
	}
}
