package views

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/quipper/poc/housejobs/pkg/repositories/people"
)

// SummaryPageSize is the number of entries per summary section.
const SummaryPageSize = 10

// SummaryBlockPrefix prefixes the block id of every summary entry section.
const SummaryBlockPrefix = "summary_page_"

func enabledOnly(records []*people.Person) []*people.Person {
	var out []*people.Person
	for _, p := range SortByName(records) {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// ClosingSummary renders the enabled/total count and the enabled assignments,
// SummaryPageSize entries per section block.
func ClosingSummary(records []*people.Person) []slack.Block {
	enabled := enabledOnly(records)
	total := 0
	for _, p := range records {
		if p != nil {
			total++
		}
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(plain("House jobs updated")),
		slack.NewSectionBlock(markdown(fmt.Sprintf("*Enabled:* %d/%d", len(enabled), total)), nil, nil),
	}
	if len(enabled) == 0 {
		return append(blocks, slack.NewContextBlock("summary_empty", markdown("Nobody has an active job.")))
	}

	for start := 0; start < len(enabled); start += SummaryPageSize {
		end := min(start+SummaryPageSize, len(enabled))
		lines := make([]string, 0, end-start)
		for _, p := range enabled[start:end] {
			lines = append(lines, fmt.Sprintf("• *%s*: %s (%s)", escape(nameText(p)), escape(JobNameText(p)), escape(DaysText(p))))
		}
		section := slack.NewSectionBlock(markdown(truncate(strings.Join(lines, "\n"), maxTextLen)), nil, nil)
		section.BlockID = fmt.Sprintf("%s%d", SummaryBlockPrefix, start/SummaryPageSize)
		blocks = append(blocks, section)
	}
	return blocks
}

// ClosingSummaryText is the notification fallback for ClosingSummary.
func ClosingSummaryText(records []*people.Person) string {
	total := 0
	for _, p := range records {
		if p != nil {
			total++
		}
	}
	return fmt.Sprintf("House jobs updated: %d/%d enabled", len(enabledOnly(records)), total)
}
