package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lachiem1/monthlens/internal/aggregate"
	"github.com/lachiem1/monthlens/internal/dashboard"
	"github.com/lachiem1/monthlens/internal/errs"
	"github.com/lachiem1/monthlens/internal/logger"
	"github.com/lachiem1/monthlens/internal/period"
	"github.com/lachiem1/monthlens/internal/records"
	"github.com/lachiem1/monthlens/internal/storage"
	"github.com/lachiem1/monthlens/internal/widget"
)

const (
	feedbackTTL   = 4 * time.Second
	clockInterval = 30 * time.Second
)

type resultMsg struct {
	res widget.Result
}

type catalogMsg struct {
	catalog aggregate.Catalog
	err     error
}

type mutationMsg struct {
	action string
	err    error
}

type historyMsg struct {
	states []storage.FetchState
	err    error
}

type clearFeedbackMsg struct {
	id int
}

type clockTickMsg struct{}

// Mutator applies record changes. A successful call is the only thing that
// bumps the refresh token.
type Mutator interface {
	Update(ctx context.Context, id records.ID, d records.Draft) (records.Record, error)
	Delete(ctx context.Context, id records.ID) error
}

// History lists fetch outcomes persisted by earlier runs.
type History interface {
	List(ctx context.Context) ([]storage.FetchState, error)
}

type Options struct {
	Context      context.Context
	Page         *dashboard.Page
	Summary      *widget.Summary
	Distribution *widget.Distribution
	List         *widget.List
	Mutator      Mutator
	History      History
	Now          func() time.Time
}

type model struct {
	ctx     context.Context
	page    *dashboard.Page
	summary *widget.Summary
	dist    *widget.Distribution
	list    *widget.List
	mutator Mutator
	history History
	now     func() time.Time

	width  int
	height int

	jump        textinput.Model
	jumping     bool
	showHelp    bool
	cursor      int
	busy        bool
	feedback    string
	feedbackID  int
	lastSession []storage.FetchState
	quitting    bool
}

func New(opts Options) tea.Model {
	jump := textinput.New()
	jump.Prompt = "month: "
	jump.Placeholder = "YYYY-MM"
	jump.CharLimit = 7
	jump.Width = 12

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return model{
		ctx:     ctx,
		page:    opts.Page,
		summary: opts.Summary,
		dist:    opts.Distribution,
		list:    opts.List,
		mutator: opts.Mutator,
		history: opts.History,
		now:     now,
		jump:    jump,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchCmds(m.page.Start(m.ctx)),
		m.catalogCmd(),
		m.historyCmd(),
		clockTickCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case resultMsg:
		m.page.Deliver(msg.res)
		m.clampCursor()
		return m, nil

	case catalogMsg:
		if msg.err != nil {
			logger.FromContext(m.ctx).Warn("load categories failed",
				logger.FieldComponent, logger.ComponentTUI,
				logger.FieldError, msg.err,
			)
			return m, nil
		}
		m.page.ApplyCatalog(msg.catalog)
		return m, nil

	case historyMsg:
		if msg.err == nil {
			m.lastSession = msg.states
		}
		return m, nil

	case mutationMsg:
		m.busy = false
		if msg.err != nil {
			return m.withFeedback(msg.action + " failed: " + msg.err.Error())
		}
		next, cmd := m.withFeedback(msg.action + " done")
		nm := next.(model)
		return nm, tea.Batch(cmd, nm.fetchCmds(nm.page.Bump()))

	case clearFeedbackMsg:
		if msg.id == m.feedbackID {
			m.feedback = ""
		}
		return m, nil

	case clockTickMsg:
		return m, clockTickCmd()

	case tea.KeyMsg:
		if m.jumping {
			return m.updateJump(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "esc", "?", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "left", "h":
		m.cursor = 0
		return m, m.fetchCmds(m.page.Advance(period.Previous))
	case "right", "l":
		m.cursor = 0
		return m, m.fetchCmds(m.page.Advance(period.Next))
	case "t":
		m.cursor = 0
		return m, m.fetchCmds(m.page.SetPeriod(period.Current(m.now())))
	case "g":
		m.jumping = true
		m.jump.SetValue("")
		cmd := m.jump.Focus()
		return m, cmd
	case "r":
		reqs := m.page.Retry()
		if len(reqs) == 0 {
			return m.withFeedback("nothing to retry")
		}
		return m, m.fetchCmds(reqs)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.flatRecords())-1 {
			m.cursor++
		}
		return m, nil
	case "d":
		rec, ok := m.selectedRecord()
		if !ok || m.busy || m.mutator == nil {
			return m, nil
		}
		m.busy = true
		return m, m.deleteCmd(rec.ID)
	case " ", "space":
		rec, ok := m.selectedRecord()
		if !ok || m.busy || m.mutator == nil || rec.Malformed {
			return m, nil
		}
		m.busy = true
		draft := records.DraftFrom(rec)
		draft.Recurring = !draft.Recurring
		return m, m.updateCmd(rec.ID, draft)
	}
	return m, nil
}

func (m model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.jumping = false
		m.jump.Blur()
		return m, nil
	case "enter":
		target, err := period.Parse(strings.TrimSpace(m.jump.Value()))
		if err != nil {
			return m.withFeedback("enter a month as YYYY-MM")
		}
		m.jumping = false
		m.jump.Blur()
		m.cursor = 0
		return m, m.fetchCmds(m.page.SetPeriod(target))
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m model) withFeedback(text string) (tea.Model, tea.Cmd) {
	m.feedbackID++
	m.feedback = text
	id := m.feedbackID
	return m, tea.Tick(feedbackTTL, func(time.Time) tea.Msg {
		return clearFeedbackMsg{id: id}
	})
}

// flatRecords is the list widget's records in display order.
func (m model) flatRecords() []records.Record {
	if m.list == nil {
		return nil
	}
	var out []records.Record
	for _, day := range m.list.Output().Days {
		out = append(out, day.Records...)
	}
	return out
}

func (m model) selectedRecord() (records.Record, bool) {
	rs := m.flatRecords()
	if m.cursor < 0 || m.cursor >= len(rs) {
		return records.Record{}, false
	}
	return rs[m.cursor], true
}

func (m *model) clampCursor() {
	n := len(m.flatRecords())
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m model) fetchCmds(reqs []widget.Request) tea.Cmd {
	if len(reqs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		cmds = append(cmds, m.fetchCmd(req))
	}
	return tea.Batch(cmds...)
}

func (m model) fetchCmd(req widget.Request) tea.Cmd {
	page, ctx := m.page, m.ctx
	return func() tea.Msg {
		return resultMsg{res: page.Run(ctx, req)}
	}
}

func (m model) catalogCmd() tea.Cmd {
	page, ctx := m.page, m.ctx
	return func() tea.Msg {
		c, err := page.LoadCatalog(ctx)
		return catalogMsg{catalog: c, err: err}
	}
}

func (m model) historyCmd() tea.Cmd {
	if m.history == nil {
		return nil
	}
	history, ctx := m.history, m.ctx
	return func() tea.Msg {
		states, err := history.List(ctx)
		return historyMsg{states: states, err: err}
	}
}

func (m model) deleteCmd(id records.ID) tea.Cmd {
	mutator, ctx := m.mutator, m.ctx
	return func() tea.Msg {
		return mutationMsg{action: "delete", err: mutator.Delete(ctx, id)}
	}
}

func (m model) updateCmd(id records.ID, d records.Draft) tea.Cmd {
	mutator, ctx := m.mutator, m.ctx
	return func() tea.Msg {
		_, err := mutator.Update(ctx, id, d)
		return mutationMsg{action: "update", err: err}
	}
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(time.Time) tea.Msg {
		return clockTickMsg{}
	})
}

func errorHint(err error) string {
	switch {
	case errs.KindOf(err) == errs.KindUnauthorized:
		return "run `monthlens auth set`"
	case errs.Retryable(err):
		return "press r to retry"
	default:
		return ""
	}
}

func describeError(err error) string {
	msg := fmt.Sprintf("error: %v", err)
	if hint := errorHint(err); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}
