package jobs

import (
	"bytes"
	"io"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/quipper/poc/housejobs/pkg/common/logger"
)

// maxSlackBody bounds what is buffered for signature checks; Slack payloads are small.
const maxSlackBody = 1 << 20

// verifySlackSignature checks X-Slack-Signature against the raw body and the
// signing secret, then restores the body for the next handler.
func (h *Handler) verifySlackSignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sv, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
		if err != nil {
			logger.Warn("slack auth: path=%s rejected headers: %v", r.URL.Path, err)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
		body, err := io.ReadAll(io.TeeReader(io.LimitReader(r.Body, maxSlackBody), &sv))
		if err != nil {
			logger.Warn("slack auth: path=%s read body: %v", r.URL.Path, err)
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		if err := sv.Ensure(); err != nil {
			logger.Warn("slack auth: path=%s signature mismatch: %v", r.URL.Path, err)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
		logger.Debug("slack request: path=%s body=%s", r.URL.Path, body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}
