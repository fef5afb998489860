package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/slack-go/slack"

	"github.com/quipper/poc/housejobs/internal/views"
	"github.com/quipper/poc/housejobs/pkg/common/correlation"
	"github.com/quipper/poc/housejobs/pkg/common/logger"
	"github.com/quipper/poc/housejobs/pkg/platform/chat"
	"github.com/quipper/poc/housejobs/pkg/repositories/people"
)

const (
	emptyTasksError = "Add at least one task, one per line."
	saveFailedError = "Could not save, try again."
)

// interactions POST /slack/interactions
func (h *Handler) interactions(w http.ResponseWriter, r *http.Request) {
	var cb slack.InteractionCallback
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &cb); err != nil {
		logger.Debug("interactions: invalid payload: %v", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	logger.Debug("interactions: type=%s callback=%s user=%s view=%s", cb.Type, cb.View.CallbackID, cb.User.ID, cb.View.ID)
	if !h.authorized(cb.User.ID) {
		logger.Warn("interactions: ignoring %s from unauthorized user=%s", cb.Type, cb.User.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx := r.Context()
	switch cb.Type {
	case slack.InteractionTypeBlockActions:
		h.blockActions(ctx, &cb)
		w.WriteHeader(http.StatusOK)
	case slack.InteractionTypeViewSubmission:
		switch cb.View.CallbackID {
		case views.EditorCallbackID:
			h.submitEditor(ctx, w, &cb)
		case views.RosterCallbackID:
			h.postClosingSummary(ctx, cb.View.PrivateMetadata)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusOK)
		}
	case slack.InteractionTypeViewClosed:
		if cb.View.CallbackID == views.RosterCallbackID {
			h.postClosingSummary(ctx, cb.View.PrivateMetadata)
		}
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (h *Handler) blockActions(ctx context.Context, cb *slack.InteractionCallback) {
	for _, action := range cb.ActionCallback.BlockActions {
		if action == nil || !strings.HasPrefix(action.ActionID, views.EditActionPrefix) {
			continue
		}
		if err := h.pushEditor(ctx, cb, action.Value); err != nil {
			logger.Error("blockActions: push editor person=%s view=%s: %v", action.Value, cb.View.ID, err)
		}
	}
}

// pushEditor stacks the editor for personID on top of the roster view in cb.
func (h *Handler) pushEditor(ctx context.Context, cb *slack.InteractionCallback, personID string) error {
	tok, err := h.tokens.Decode(cb.View.PrivateMetadata)
	if err != nil {
		return err
	}
	p, err := h.roster.Get(ctx, personID)
	if err != nil {
		return err
	}
	token, err := h.tokens.Encode(tok.ForPerson(personID, cb.View.ID))
	if err != nil {
		return err
	}
	_, err = h.platform.PushView(ctx, cb.TriggerID, views.Editor(p, token))
	return err
}

// editorForm is the decoded state of a submitted editor.
type editorForm struct {
	jobName string
	days    []string
	enabled bool
	tasks   []string
}

func parseEditorState(state *slack.ViewState) editorForm {
	if state == nil {
		return editorForm{}
	}
	v := state.Values
	f := editorForm{
		jobName: strings.TrimSpace(v[views.BlockJobName][views.ActionJobName].Value),
		enabled: v[views.BlockJobStatus][views.ActionJobStatus].SelectedOption.Value == views.StatusActive,
		tasks:   splitTasks(v[views.BlockJobTasks][views.ActionJobTasks].Value),
	}
	for _, o := range v[views.BlockJobDays][views.ActionJobDays].SelectedOptions {
		f.days = append(f.days, o.Value)
	}
	return f
}

// splitTasks turns the multiline field into one task per non-blank line.
func splitTasks(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (h *Handler) submitEditor(ctx context.Context, w http.ResponseWriter, cb *slack.InteractionCallback) {
	tok, err := h.tokens.Decode(cb.View.PrivateMetadata)
	if err != nil || tok.Person == "" {
		logger.Warn("submitEditor: view=%s bad correlation token: %v", cb.View.ID, err)
		w.WriteHeader(http.StatusOK)
		return
	}

	form := parseEditorState(cb.View.State)
	if len(form.tasks) == 0 {
		logger.Debug("submitEditor: person=%s empty task list", tok.Person)
		writeViewResponse(w, slack.NewErrorsViewSubmissionResponse(map[string]string{views.BlockJobTasks: emptyTasksError}))
		return
	}

	update := people.JobUpdate{Enabled: form.enabled, JobName: form.jobName, JobDays: form.days, JobTasks: form.tasks}
	if err := h.roster.UpdateJob(ctx, tok.Person, update); err != nil {
		logger.Error("submitEditor: update person=%s by user=%s: %v", tok.Person, cb.User.ID, err)
		writeViewResponse(w, slack.NewErrorsViewSubmissionResponse(map[string]string{views.BlockJobTasks: saveFailedError}))
		return
	}
	logger.Info("job updated: person=%s by user=%s enabled=%t days=%v", tok.Person, cb.User.ID, update.Enabled, update.JobDays)

	session := correlation.Token{Session: tok.Session, Channel: tok.Channel, User: tok.User}
	token, err := h.tokens.Encode(session)
	if err != nil {
		logger.Error("submitEditor: encode roster token: %v", err)
		w.WriteHeader(http.StatusOK)
		return
	}
	refreshed := views.Roster(h.roster.All(), token)

	if tok.ParentView == "" {
		// No roster underneath: turn the editor itself into the roster.
		writeViewResponse(w, slack.NewUpdateViewSubmissionResponse(&refreshed))
		return
	}
	h.refreshBestEffort(ctx, tok.ParentView, refreshed)
	w.WriteHeader(http.StatusOK)
}

// refreshBestEffort replaces viewID in place. A view the user already
// dismissed is expected and only logged at debug; nothing is retried.
func (h *Handler) refreshBestEffort(ctx context.Context, viewID string, view slack.ModalViewRequest) {
	err := h.platform.UpdateView(ctx, viewID, view)
	switch {
	case err == nil:
	case errors.Is(err, chat.ErrViewGone):
		logger.Debug("refresh: view %s already closed", viewID)
	default:
		logger.Error("refresh: update view %s: %v", viewID, err)
	}
}

func (h *Handler) postClosingSummary(ctx context.Context, metadata string) {
	tok, err := h.tokens.Decode(metadata)
	if err != nil {
		logger.Warn("closing summary: bad correlation token: %v", err)
		return
	}
	if tok.Channel == "" {
		logger.Debug("closing summary: session %s has no channel", tok.Session)
		return
	}
	records := h.roster.All()
	if err := h.platform.PostMessage(ctx, tok.Channel, views.ClosingSummaryText(records), views.ClosingSummary(records)); err != nil {
		logger.Error("closing summary: session=%s channel=%s: %v", tok.Session, tok.Channel, err)
	}
}

func writeViewResponse(w http.ResponseWriter, resp *slack.ViewSubmissionResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
