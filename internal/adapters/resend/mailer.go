// Package resend delivers notification emails through the Resend API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	resendapi "github.com/resend/resend-go/v2"

	"github.com/csg33k/cotizador/internal/domain"
)

// ErrNoMessageID is returned when the provider accepts the call but the
// response carries no message id.
var ErrNoMessageID = errors.New("email provider returned no message id")

// Sender is the part of the Resend client the mailer uses.
type Sender interface {
	SendWithContext(ctx context.Context, params *resendapi.SendEmailRequest) (*resendapi.SendEmailResponse, error)
}

type Mailer struct {
	sender Sender
}

// New builds a mailer on a real Resend client. A nil httpClient uses the
// library default; baseURL overrides the API endpoint when non-empty.
func New(apiKey string, httpClient *http.Client, baseURL string) (*Mailer, error) {
	c := resendapi.NewCustomClient(httpClient, apiKey)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("resend base url: %w", err)
		}
		c.BaseURL = u
	}
	return &Mailer{sender: c.Emails}, nil
}

// NewWithSender wraps an existing sender.
func NewWithSender(s Sender) *Mailer {
	return &Mailer{sender: s}
}

// Send implements ports.Mailer.
func (m *Mailer) Send(ctx context.Context, e domain.Email) (string, error) {
	req := &resendapi.SendEmailRequest{
		From:    e.From,
		To:      e.To,
		Subject: e.Subject,
		Html:    e.HTML,
	}
	if len(e.CC) > 0 {
		req.Cc = e.CC
	}
	for _, a := range e.Attachments {
		req.Attachments = append(req.Attachments, &resendapi.Attachment{
			Content:     a.Content,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
	}

	resp, err := m.sender.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("send %q: %w", e.Subject, err)
	}
	if resp == nil || resp.Id == "" {
		return "", ErrNoMessageID
	}
	return resp.Id, nil
}
