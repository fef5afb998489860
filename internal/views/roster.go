package views

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/quipper/poc/housejobs/pkg/repositories/people"
)

// MaxRosterPeople keeps the roster under Slack's 100 blocks per modal:
// three header blocks, two per person and one overflow note.
const MaxRosterPeople = 48

// Roster renders one summary per person in ascending name order. token is
// stored as private metadata and comes back on submit and close.
func Roster(records []*people.Person, token string) slack.ModalViewRequest {
	sorted := SortByName(records)
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain("House jobs")),
		slack.NewContextBlock("roster_intro", markdown("Press *Edit* next to someone to change their job.")),
		slack.NewDividerBlock(),
	}

	shown := sorted
	if len(shown) > MaxRosterPeople {
		shown = shown[:MaxRosterPeople]
	}
	for _, p := range shown {
		blocks = append(blocks, personSummary(p)...)
	}
	switch hidden := len(sorted) - len(shown); {
	case len(sorted) == 0:
		blocks = append(blocks, slack.NewContextBlock("roster_empty", markdown("No workspace members found.")))
	case hidden > 0:
		blocks = append(blocks, slack.NewContextBlock("roster_overflow", markdown(fmt.Sprintf("%d more not shown.", hidden))))
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		Title:           plain("Configure house jobs"),
		Close:           plain("Cancel"),
		Submit:          plain("Done"),
		Blocks:          slack.Blocks{BlockSet: blocks},
		PrivateMetadata: token,
		CallbackID:      RosterCallbackID,
		NotifyOnClose:   true,
	}
}

func personSummary(p *people.Person) []slack.Block {
	status := "Enabled:\t:x:"
	if p.Enabled {
		status = "Enabled:\t:white_check_mark:"
	}
	edit := slack.NewButtonBlockElement(EditActionPrefix+p.PersonID, p.PersonID, plain("Edit"))
	section := slack.NewSectionBlock(nil, []*slack.TextBlockObject{
		markdown("*" + escape(nameText(p)) + "*"),
		markdown(status),
	}, slack.NewAccessory(edit))
	section.BlockID = "person_" + p.PersonID

	details := slack.NewContextBlock("job_"+p.PersonID,
		markdown("Job Name: "+escape(JobNameText(p))),
		markdown("Days: "+escape(DaysText(p))),
	)
	return []slack.Block{section, details}
}
