package chatfakes

import (
	"context"
	"fmt"
	"sync"

	"github.com/slack-go/slack"

	"github.com/quipper/poc/housejobs/pkg/platform/chat"
)

// OpenedView records a views.open or views.push call.
type OpenedView struct {
	TriggerID string
	View      slack.ModalViewRequest
}

// UpdatedView records a views.update call.
type UpdatedView struct {
	ViewID string
	View   slack.ModalViewRequest
}

// Message records a chat.postMessage call.
type Message struct {
	Channel string
	Text    string
	Blocks  []slack.Block
}

// Platform is a recording chat.Platform fake.
type Platform struct {
	mu        sync.Mutex
	Members   []chat.Member
	Opened    []OpenedView
	Pushed    []OpenedView
	Updated   []UpdatedView
	Messages  []Message
	ListCalls int
	// UpdateErr is returned by UpdateView after recording the call.
	UpdateErr error
}

var _ chat.Platform = (*Platform)(nil)

func (p *Platform) ListMembers(_ context.Context) ([]chat.Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ListCalls++
	return append([]chat.Member{}, p.Members...), nil
}

func (p *Platform) OpenView(_ context.Context, triggerID string, view slack.ModalViewRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Opened = append(p.Opened, OpenedView{TriggerID: triggerID, View: view})
	return fmt.Sprintf("V-open-%d", len(p.Opened)), nil
}

func (p *Platform) PushView(_ context.Context, triggerID string, view slack.ModalViewRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Pushed = append(p.Pushed, OpenedView{TriggerID: triggerID, View: view})
	return fmt.Sprintf("V-push-%d", len(p.Pushed)), nil
}

func (p *Platform) UpdateView(_ context.Context, viewID string, view slack.ModalViewRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Updated = append(p.Updated, UpdatedView{ViewID: viewID, View: view})
	return p.UpdateErr
}

func (p *Platform) PostMessage(_ context.Context, channelID, text string, blocks []slack.Block) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Messages = append(p.Messages, Message{Channel: channelID, Text: text, Blocks: blocks})
	return nil
}

// Calls returns the total number of platform calls recorded.
func (p *Platform) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ListCalls + len(p.Opened) + len(p.Pushed) + len(p.Updated) + len(p.Messages)
}
