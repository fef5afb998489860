package jobs

import (
	"context"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/quipper/poc/housejobs/internal/views"
	"github.com/quipper/poc/housejobs/pkg/common/correlation"
	"github.com/quipper/poc/housejobs/pkg/common/logger"
)

const rejectText = "You are not authorized to configure jobs."

// slashCommand POST /slack/commands
func (h *Handler) slashCommand(w http.ResponseWriter, r *http.Request) {
	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		logger.Debug("slashCommand: parse: %v", err)
		http.Error(w, "invalid command payload", http.StatusBadRequest)
		return
	}
	logger.Debug("slashCommand: command=%s user=%s channel=%s", cmd.Command, cmd.UserID, cmd.ChannelID)
	if cmd.Command != h.command {
		logger.Warn("slashCommand: unexpected command %q", cmd.Command)
		respondEphemeral(w, fmt.Sprintf("Unknown command %s.", cmd.Command))
		return
	}
	if !h.authorized(cmd.UserID) {
		logger.Info("slashCommand: rejected user=%s", cmd.UserID)
		respondEphemeral(w, rejectText)
		return
	}

	if err := h.openRoster(r.Context(), cmd.TriggerID, cmd.ChannelID, cmd.UserID); err != nil {
		logger.Error("slashCommand: open roster user=%s channel=%s: %v", cmd.UserID, cmd.ChannelID, err)
		respondEphemeral(w, "Sorry, the house jobs panel could not be opened.")
		return
	}
	respondEphemeral(w, fmt.Sprintf("Hi <@%s>!\nYou can configure house jobs in the popup panel.", cmd.UserID))
}

// openRoster syncs the member list into the store and opens the roster modal.
func (h *Handler) openRoster(ctx context.Context, triggerID, channelID, userID string) error {
	members, err := h.platform.ListMembers(ctx)
	if err != nil {
		return err
	}
	records, err := h.roster.Sync(ctx, members)
	if err != nil {
		return err
	}
	token, err := h.tokens.Encode(correlation.NewSession(channelID, userID))
	if err != nil {
		return err
	}
	viewID, err := h.platform.OpenView(ctx, triggerID, views.Roster(records, token))
	if err != nil {
		return err
	}
	logger.Info("roster opened: view=%s user=%s people=%d", viewID, userID, len(records))
	return nil
}
