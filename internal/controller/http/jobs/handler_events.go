package jobs

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/slack-go/slack/slackevents"

	"github.com/quipper/poc/housejobs/pkg/common/logger"
)

const mentionReply = "Do your house job already and stop bothering me :clown:"

// events POST /slack/events
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	// The signature middleware already authenticated the request.
	ev, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		logger.Debug("events: parse: %v", err)
		http.Error(w, "invalid event", http.StatusBadRequest)
		return
	}

	switch ev.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "invalid challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))
	case slackevents.CallbackEvent:
		if retry := r.Header.Get("X-Slack-Retry-Num"); retry != "" {
			logger.Debug("events: skipping retry %s", retry)
			w.WriteHeader(http.StatusOK)
			return
		}
		if mention, ok := ev.InnerEvent.Data.(*slackevents.AppMentionEvent); ok {
			if err := h.platform.PostMessage(r.Context(), mention.Channel, mentionReply, nil); err != nil {
				logger.Error("events: reply to mention in %s: %v", mention.Channel, err)
			}
		}
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusOK)
	}
}
