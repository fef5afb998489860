package views

import (
	"strings"

	"github.com/slack-go/slack"

	"github.com/quipper/poc/housejobs/pkg/repositories/people"
)

func option(value string) *slack.OptionBlockObject {
	return slack.NewOptionBlockObject(value, plain(value), nil)
}

// Editor renders the form for one person pre-populated from their record.
func Editor(p *people.Person, token string) slack.ModalViewRequest {
	name := slack.NewPlainTextInputBlockElement(plain("e.g. Kitchen"), ActionJobName)
	name.InitialValue = truncate(p.JobName, MaxJobNameLen)
	name.MaxLength = MaxJobNameLen
	nameBlock := slack.NewInputBlock(BlockJobName, plain("Job name"), nil, name)
	nameBlock.Optional = true

	dayOptions := make([]*slack.OptionBlockObject, 0, len(people.Weekdays))
	for _, d := range people.Weekdays {
		dayOptions = append(dayOptions, option(d))
	}
	days := slack.NewOptionsMultiSelectBlockElement(slack.MultiOptTypeStatic, plain("Pick days"), ActionJobDays, dayOptions...)
	seen := map[string]bool{}
	for _, d := range p.JobDays {
		if people.IsWeekday(d) && !seen[d] {
			seen[d] = true
			days.InitialOptions = append(days.InitialOptions, option(d))
		}
	}
	daysBlock := slack.NewInputBlock(BlockJobDays, plain("Days"), nil, days)
	daysBlock.Optional = true

	status := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plain("Status"), ActionJobStatus,
		option(StatusActive), option(StatusInactive))
	if p.Enabled {
		status.InitialOption = option(StatusActive)
	} else {
		status.InitialOption = option(StatusInactive)
	}
	statusBlock := slack.NewInputBlock(BlockJobStatus, plain("Status"), nil, status)

	tasks := slack.NewPlainTextInputBlockElement(plain("wash dishes"), ActionJobTasks)
	tasks.Multiline = true
	tasks.InitialValue = truncate(strings.Join(p.JobTasks, "\n"), MaxTasksLen)
	tasks.MaxLength = MaxTasksLen
	// Optional so an empty list reaches the server and gets a field error there.
	tasksBlock := slack.NewInputBlock(BlockJobTasks, plain("Tasks"), plain("One task per line."), tasks)
	tasksBlock.Optional = true

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		Title:           plain(truncate("Edit "+p.DisplayName, maxTitleLen)),
		Close:           plain("Back"),
		Submit:          plain("Save"),
		Blocks:          slack.Blocks{BlockSet: []slack.Block{nameBlock, daysBlock, statusBlock, tasksBlock}},
		PrivateMetadata: token,
		CallbackID:      EditorCallbackID,
	}
}
