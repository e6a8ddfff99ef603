package reviewtui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/review"
)

// Model drives an interactive confirm/reject pass over one job's items
// awaiting a decision.
type Model struct {
	ctx     context.Context
	api     *review.API
	ownerID string
	jobID   string

	list    list.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
	err     error
	pending string // item id awaiting a decision round-trip
	done    bool
}

// NewModel constructs a reviewtui Model over api for the given job, scoped
// to ownerID.
func NewModel(ctx context.Context, api *review.API, ownerID, jobID string) *Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Items awaiting review"

	return &Model{
		ctx:     ctx,
		api:     api,
		ownerID: ownerID,
		jobID:   jobID,
		list:    l,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.loadItems()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case Msg:
		return m.handleAppMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.confirm):
		return m, m.applyDecision(review.Confirm)
	case key.Matches(msg, m.keys.reject):
		return m, m.applyDecision(review.Reject)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleAppMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.Kind {
	case KindItemsLoaded:
		items := msg.Data.([]*job.Item)
		listItems := make([]list.Item, len(items))
		for i, it := range items {
			listItems[i] = reviewItem{item: it}
		}
		m.list.SetItems(listItems)
		if m.width > 0 && m.height > 0 {
			m.list.SetSize(m.width-4, m.height-6)
		}
		m.done = len(items) == 0
	case KindDecisionApplied:
		m.pending = ""
		return m, m.loadItems()
	case KindError:
		m.err = msg.Data.(error)
	}
	return m, nil
}

func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("error: %v\n\npress q to quit", m.err)) + "\n"
	}
	if m.done {
		return styles.ok.Render("no items awaiting review\n\npress q to quit") + "\n"
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	status := ""
	if m.pending != "" {
		status = styles.warn.Render(fmt.Sprintf("\napplying decision for %s...", m.pending))
	}
	return fmt.Sprintf("%s%s\n\n%s", m.list.View(), status, helpView)
}

func (m *Model) applyDecision(action review.Action) tea.Cmd {
	selected := m.list.SelectedItem()
	if selected == nil {
		return nil
	}
	ri, ok := selected.(reviewItem)
	if !ok {
		return nil
	}
	m.pending = ri.item.ID

	return func() tea.Msg {
		err := m.api.ApplyDecisions(m.ctx, m.ownerID, m.jobID, []review.Decision{
			{ItemID: ri.item.ID, Action: action},
		})
		if err != nil {
			return errMsg(err)
		}
		return decisionAppliedMsg(ri.item.ID)
	}
}

func (m *Model) loadItems() tea.Cmd {
	return func() tea.Msg {
		items, err := m.api.ListUncertain(m.ctx, m.ownerID, m.jobID)
		if err != nil {
			return errMsg(err)
		}
		return itemsLoadedMsg(items)
	}
}
