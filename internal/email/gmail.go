// Package email sends mail through the Gmail API using each creator's own
// delegated OAuth credential, and renders the message templates.
package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"brieflinks/internal/config"
)

// CredentialExchangeError indicates the refresh-token exchange was rejected
// by the provider. Body carries the provider's error response for diagnostics.
type CredentialExchangeError struct {
	Body string
	err  error
}

func (e *CredentialExchangeError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("failed to refresh token: %s", e.Body)
	}
	return fmt.Sprintf("failed to refresh token: %v", e.err)
}

func (e *CredentialExchangeError) Unwrap() error { return e.err }

// SendError indicates the Gmail send endpoint rejected the message.
type SendError struct {
	StatusCode int
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("gmail API error: %s", e.Body)
}

// SendParams describes one outgoing message.
type SendParams struct {
	RefreshToken string
	From         string
	FromName     string
	To           string
	Subject      string
	HTML         string
}

// SendResult is returned on a successful send. AccessToken is the fresh
// short-lived credential obtained for the send; this client never persists
// it, callers decide whether to store it.
type SendResult struct {
	MessageID   string
	AccessToken string
}

// Gmail exchanges delegated refresh tokens for access tokens and submits raw
// MIME messages to the Gmail send endpoint.
type Gmail struct {
	oauth   oauth2.Config
	sendURL string
	client  *http.Client
	now     func() time.Time
}

// NewGmail creates a Gmail client from the configured OAuth credentials.
func NewGmail(cfg *config.Config) *Gmail {
	return &Gmail{
		oauth: oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: cfg.GoogleTokenURL},
		},
		sendURL: cfg.GmailSendURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		now:     time.Now,
	}
}

// RefreshAccessToken exchanges a long-lived refresh token for a short-lived
// access token at the provider's token endpoint.
func (g *Gmail) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)

	src := g.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", &CredentialExchangeError{Body: string(retrieveErr.Body), err: err}
		}
		return "", &CredentialExchangeError{err: err}
	}

	return token.AccessToken, nil
}

// ComposeRawMessage builds a MIME multipart/alternative message with a
// base64-encoded UTF-8 subject and a base64-encoded HTML body, joined with
// CRLF line endings. The boundary is derived from the current time so it
// cannot collide with body content.
func (g *Gmail) ComposeRawMessage(from, fromName, to, subject, htmlBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(g.now().UnixMilli(), 10)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %q <%s>\r\n", fromName, from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: =?UTF-8?B?%s?=\r\n", base64.StdEncoding.EncodeToString([]byte(subject))))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary))
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(base64.StdEncoding.EncodeToString([]byte(htmlBody)))
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf("--%s--", boundary))

	return []byte(msg.String())
}

// Send refreshes the access token, composes the raw message and submits it to
// the Gmail send endpoint. Returns the provider-issued message id along with
// the fresh access token.
func (g *Gmail) Send(ctx context.Context, params SendParams) (*SendResult, error) {
	accessToken, err := g.RefreshAccessToken(ctx, params.RefreshToken)
	if err != nil {
		return nil, err
	}

	raw := g.ComposeRawMessage(params.From, params.FromName, params.To, params.Subject, params.HTML)
	encoded := base64.RawURLEncoding.EncodeToString(raw)

	payload, err := json.Marshal(map[string]string{"raw": encoded})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.sendURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SendError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode send response: %w", err)
	}

	return &SendResult{MessageID: result.ID, AccessToken: accessToken}, nil
}
