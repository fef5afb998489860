package chat

import (
	"context"
	"errors"

	"github.com/slack-go/slack"
)

// ErrViewGone is returned by UpdateView when the target view was dismissed.
var ErrViewGone = errors.New("chat: view no longer exists")

// Member is an active human member of the workspace.
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Platform is the subset of the Slack Web API the bot depends on.
// Views are exchanged as Block Kit modal documents.
type Platform interface {
	// ListMembers excludes bots, deactivated accounts and the system account.
	ListMembers(ctx context.Context) ([]Member, error)
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) (viewID string, err error)
	PushView(ctx context.Context, triggerID string, view slack.ModalViewRequest) (viewID string, err error)
	UpdateView(ctx context.Context, viewID string, view slack.ModalViewRequest) error
	PostMessage(ctx context.Context, channelID, text string, blocks []slack.Block) error
}
