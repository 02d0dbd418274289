// Package scanner finds unread donation notification emails and extracts
// their donation details.
package scanner

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"google.golang.org/api/gmail/v1"

	"github.com/ymkw/kifulog/internal/donation"
)

// Subject is the exact subject line the donation platform puts on
// notification emails.
const Subject = "寄付受付のお知らせ"

const searchQuery = `is:unread subject:"` + Subject + `"`

// Found is one successfully parsed donation email.
type Found struct {
	Donation donation.Details
	MsgID    string
}

type gmailSvc interface {
	ListMessages(ctx context.Context, query string) (*gmail.ListMessagesResponse, error)
	GetMessage(ctx context.Context, msgID string) (*gmail.Message, error)
}

func New(svc gmailSvc) *Scanner {
	return &Scanner{svc: svc}
}

type Scanner struct {
	svc gmailSvc
}

// Scan searches the inbox for unread donation notifications and returns the
// ones whose body parsed cleanly. Messages that fail to fetch or parse are
// logged and skipped; they stay unread so the next run sees them again. Only
// a failure of the search itself comes back as an error.
func (s *Scanner) Scan(ctx context.Context) ([]Found, error) {
	result, err := s.svc.ListMessages(ctx, searchQuery)
	if err != nil {
		return nil, fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	found := make([]Found, 0, len(result.Messages))

	for _, m := range result.Messages {
		msg, err := s.svc.GetMessage(ctx, m.Id)
		if err != nil {
			log.Printf("get message %s failed, skipping: %v", m.Id, err)
			continue
		}

		// subject: search matches loosely; require the exact literal.
		if subjectHeader(msg) != Subject {
			continue
		}

		details, err := donation.ExtractDetails(plainTextBody(msg))
		if err != nil {
			log.Printf("message %s doesn't parse as a donation, skipping: %v", m.Id, err)
			continue
		}

		found = append(found, Found{Donation: details, MsgID: m.Id})
	}

	return found, nil
}

func subjectHeader(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}

	for _, h := range msg.Payload.Headers {
		if h.Name == "Subject" {
			return h.Value
		}
	}

	return ""
}

// plainTextBody walks the MIME part tree for the first text/plain part.
func plainTextBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}

	return textFromPart(msg.Payload)
}

func textFromPart(part *gmail.MessagePart) string {
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		return decodeBase64URL(part.Body.Data)
	}

	for _, p := range part.Parts {
		if text := textFromPart(p); text != "" {
			return text
		}
	}

	return ""
}

func decodeBase64URL(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return data
		}
	}
	return string(decoded)
}
