// Package slack adapts the Slack Web API to chat.Platform.
package slack

import (
	"context"
	"errors"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/quipper/poc/housejobs/pkg/common/logger"
	"github.com/quipper/poc/housejobs/pkg/platform/chat"
)

// SystemUserID is Slack's built-in account; it is never part of the roster.
const SystemUserID = "USLACKBOT"

// Client implements chat.Platform on top of slack-go.
type Client struct {
	api *slack.Client
}

var _ chat.Platform = (*Client)(nil)

// NewClient creates a client for the bot token. apiURL overrides the Slack API
// base URL when non-empty (it must end with a slash).
func NewClient(botToken, apiURL string) *Client {
	opts := []slack.Option{}
	if apiURL != "" {
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}
	return &Client{api: slack.New(botToken, opts...)}
}

func (c *Client) ListMembers(ctx context.Context) ([]chat.Member, error) {
	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("users.list: %w", err)
	}
	out := make([]chat.Member, 0, len(users))
	for _, u := range users {
		if u.IsBot || u.Deleted || u.ID == SystemUserID {
			continue
		}
		out = append(out, chat.Member{ID: u.ID, DisplayName: displayName(u)})
	}
	logger.Debug("ListMembers: %d of %d users are roster members", len(out), len(users))
	return out, nil
}

func displayName(u slack.User) string {
	switch {
	case u.Profile.RealName != "":
		return u.Profile.RealName
	case u.RealName != "":
		return u.RealName
	default:
		return u.Name
	}
}

func (c *Client) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) (string, error) {
	resp, err := c.api.OpenViewContext(ctx, triggerID, view)
	if err != nil {
		return "", fmt.Errorf("views.open: %w", err)
	}
	return resp.ID, nil
}

func (c *Client) PushView(ctx context.Context, triggerID string, view slack.ModalViewRequest) (string, error) {
	resp, err := c.api.PushViewContext(ctx, triggerID, view)
	if err != nil {
		return "", fmt.Errorf("views.push: %w", err)
	}
	return resp.ID, nil
}

func (c *Client) UpdateView(ctx context.Context, viewID string, view slack.ModalViewRequest) error {
	if _, err := c.api.UpdateViewContext(ctx, view, "", "", viewID); err != nil {
		if isViewGone(err) {
			return fmt.Errorf("views.update %s: %w", viewID, chat.ErrViewGone)
		}
		return fmt.Errorf("views.update %s: %w", viewID, err)
	}
	return nil
}

func (c *Client) PostMessage(ctx context.Context, channelID, text string, blocks []slack.Block) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}
	if _, _, err := c.api.PostMessageContext(ctx, channelID, opts...); err != nil {
		return fmt.Errorf("chat.postMessage %s: %w", channelID, err)
	}
	return nil
}

func isViewGone(err error) bool {
	var resp slack.SlackErrorResponse
	if errors.As(err, &resp) {
		return resp.Err == "not_found" || resp.Err == "view_not_found"
	}
	msg := err.Error()
	return msg == "not_found" || msg == "view_not_found"
}
