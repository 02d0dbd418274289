// Package gservice wraps the Google Gmail and Sheets APIs behind the few
// calls the relay needs.
package gservice

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/ymkw/kifulog/internal/auth"
)

const gmailUserID = "me"

// unreadLabelID is the Gmail system label that scopes the scan; removing it
// is what "mark read" means.
const unreadLabelID = "UNREAD"

func NewGmail(cfg *oauth2.Config, tok *auth.Token) *GMail {
	return &GMail{
		cfg: cfg,
		tok: tok,
	}
}

type GMail struct {
	cfg *oauth2.Config
	tok *auth.Token
}

func (m *GMail) ListMessages(ctx context.Context, query string) (*gmail.ListMessagesResponse, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	result, err := svc.Users.Messages.List(gmailUserID).Q(query).Do()
	if err != nil {
		return nil, fmt.Errorf("messages.List failed: %w", err)
	}

	return result, nil
}

func (m *GMail) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	msg, err := svc.Users.Messages.Get(gmailUserID, msgID).Do()
	if err != nil {
		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}

	return msg, nil
}

// MarkRead removes the UNREAD label so the next run's search skips the message.
func (m *GMail) MarkRead(ctx context.Context, msgID string) error {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return fmt.Errorf("newSvc failed: %w", err)
	}

	req := &gmail.ModifyMessageRequest{RemoveLabelIds: []string{unreadLabelID}}
	if _, err := svc.Users.Messages.Modify(gmailUserID, msgID, req).Do(); err != nil {
		return fmt.Errorf("messages.Modify failed: %w", err)
	}

	return nil
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	t, err := m.tok.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	clt := m.cfg.Client(ctx, t)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}
