// Package views builds the Block Kit documents the bot sends to Slack: the
// roster modal, the per-person editor modal and the closing summary message.
// Builders are pure; they never touch the store or the network.
package views

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/slack-go/slack"
	"golang.org/x/text/cases"

	"github.com/quipper/poc/housejobs/pkg/repositories/people"
)

// Callback ids identify which modal a view_submission or view_closed belongs to.
const (
	RosterCallbackID = "roster"
	EditorCallbackID = "person_editor"
)

// EditActionPrefix prefixes the Edit button action id; the button value is the person id.
const EditActionPrefix = "edit_person:"

// Editor form block and action ids, read back from view state on submit.
const (
	BlockJobName    = "job_name"
	ActionJobName   = "job_name_input"
	BlockJobDays    = "job_days"
	ActionJobDays   = "job_days_select"
	BlockJobStatus  = "job_status"
	ActionJobStatus = "job_status_select"
	BlockJobTasks   = "job_tasks"
	ActionJobTasks  = "job_tasks_input"
)

// Status option values. A submission is enabled iff it selected StatusActive.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Placeholder replaces an empty job name or day list.
const Placeholder = "N/A"

const maxTitleLen = 24

// MaxJobNameLen bounds the job name input and what is rendered of stored names.
const MaxJobNameLen = 100

// MaxTasksLen bounds the tasks input.
const MaxTasksLen = 2000

const (
	maxNameText = 80
	maxDaysText = 100
	// Slack rejects section and context text longer than this.
	maxTextLen = 3000
)

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string { return mrkdwnEscaper.Replace(s) }

// SortByName returns a copy ordered by display name, case-insensitive and
// ascending, ties broken by person id.
func SortByName(records []*people.Person) []*people.Person {
	fold := cases.Fold()
	keys := make(map[*people.Person]string, len(records))
	out := make([]*people.Person, 0, len(records))
	for _, p := range records {
		if p == nil {
			continue
		}
		keys[p] = fold.String(p.DisplayName)
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := keys[out[i]], keys[out[j]]
		if ki != kj {
			return ki < kj
		}
		return out[i].PersonID < out[j].PersonID
	})
	return out
}

// JobNameText renders the job name, cut to MaxJobNameLen, or the placeholder.
func JobNameText(p *people.Person) string {
	if strings.TrimSpace(p.JobName) == "" {
		return Placeholder
	}
	return truncate(p.JobName, MaxJobNameLen)
}

// DaysText renders the day list or the placeholder.
func DaysText(p *people.Person) string {
	if len(p.JobDays) == 0 {
		return Placeholder
	}
	return truncate(strings.Join(p.JobDays, ", "), maxDaysText)
}

func nameText(p *people.Person) string {
	return truncate(p.DisplayName, maxNameText)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
