// Package dashboard is the interactive peer view: it joins the registry's
// peer records with the monitor's stats snapshot by public key and drives
// the add/enable/disable/remove workflows.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rhalstead/wgdash/internal/api"
	"github.com/rhalstead/wgdash/internal/monitor"
	"github.com/rhalstead/wgdash/internal/registry"
	"github.com/rhalstead/wgdash/internal/ui"
)

// mode is the dashboard's input focus.
type mode int

const (
	modeTable   mode = iota // keys act on the peer table
	modeAdding              // keys go to the name input
	modeConfirm             // waiting on a y/n for a removal
)

// absentStats is rendered wherever a peer has no stats this cycle.
const absentStats = "—"

// requestTimeout bounds each network call issued from the dashboard.
const requestTimeout = 15 * time.Second

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	registry *registry.Registry
	stats    monitor.StatsAPI
	snapshot *monitor.Snapshot
	username string
	interval time.Duration

	clients []api.Client
	table   table.Model
	input   textinput.Model

	mode          mode
	creating      bool // an add-client call is in flight; submission disabled
	pendingRemove api.Client

	loaded    bool
	errText   string
	width     int
	height    int
	quitting  bool
	now       func() time.Time // injectable clock for tests
}

// NewModel creates a dashboard over the given registry and stats source.
func NewModel(reg *registry.Registry, stats monitor.StatsAPI, username string, interval time.Duration) Model {
	if interval <= 0 {
		interval = monitor.DefaultInterval
	}

	input := textinput.New()
	input.Placeholder = "new client name"
	input.CharLimit = 64
	input.Width = 24

	return Model{
		registry: reg,
		stats:    stats,
		snapshot: monitor.NewSnapshot(),
		username: username,
		interval: interval,
		table:    ui.NewTable(peerColumns(), nil, 12),
		input:    input,
		now:      time.Now,
	}
}

// peerColumns defines the joined peer/stats table layout.
func peerColumns() []ui.TableColumn {
	return []ui.TableColumn{
		{Title: "NAME", Width: 18},
		{Title: "IP", Width: 14},
		{Title: "STATUS", Width: 9},
		{Title: "HANDSHAKE", Width: 11},
		{Title: "UP", Width: 10},
		{Title: "DOWN", Width: 10},
		{Title: "ENABLED", Width: 8},
	}
}

// Init kicks off the first fetches and the stats tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchClientsCmd(),
		m.fetchStatsCmd(),
		m.tickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := m.height - 8
		if h < 4 {
			h = 4
		}
		m.table.SetHeight(h)

	case tickMsg:
		// The tick never stops on a failed cycle; the next one is already
		// scheduled here.
		return m, tea.Batch(m.tickCmd(), m.fetchStatsCmd())

	case statsMsg:
		if msg.err != nil {
			// Retain the stale snapshot; surface nothing in the table.
			m.snapshot.RecordFailure(msg.err)
		} else {
			m.snapshot.Replace(msg.stats, msg.time)
		}
		m.refreshRows()

	case clientsMsg:
		if msg.err != nil {
			m.errText = summarize(msg.err)
		} else {
			m.loaded = true
			m.clients = msg.clients
			m.refreshRows()
		}

	case createDoneMsg:
		// Success or failure, the submission path re-enables.
		m.creating = false
		if msg.err != nil {
			m.errText = summarize(msg.err)
			return m, nil
		}
		m.errText = ""
		m.input.SetValue("")
		return m, m.fetchClientsCmd()

	case actionDoneMsg:
		if msg.err != nil {
			m.errText = fmt.Sprintf("%s failed: %s", msg.action, summarize(msg.err))
			return m, nil
		}
		m.errText = ""
		return m, m.fetchClientsCmd()
	}

	return m, nil
}

// handleKey routes key presses by input focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdding:
		return m.handleAddingKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	default:
		return m.handleTableKey(msg)
	}
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "a":
		m.mode = modeAdding
		m.errText = ""
		m.input.Focus()
		return m, textinput.Blink

	case "r":
		m.registry.Invalidate()
		return m, tea.Batch(m.fetchClientsCmd(), m.fetchStatsCmd())

	case "e", "d":
		sel, ok := m.selectedClient()
		if !ok {
			return m, nil
		}
		return m, m.toggleCmd(sel.ID, msg.String() == "e")

	case "x", "delete", "backspace":
		sel, ok := m.selectedClient()
		if !ok {
			return m, nil
		}
		// Destructive action: nothing is issued until the operator confirms.
		m.mode = modeConfirm
		m.pendingRemove = sel
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleAddingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeTable
		m.input.Blur()
		return m, nil

	case "enter":
		if m.creating {
			// A create is in flight; drop the duplicate submission.
			return m, nil
		}
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.errText = "client name is empty"
			return m, nil
		}
		m.creating = true
		m.errText = ""
		return m, m.createCmd(name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := m.pendingRemove
		m.mode = modeTable
		m.pendingRemove = api.Client{}
		return m, m.removeCmd(target.ID)

	case "n", "N", "esc":
		m.mode = modeTable
		m.pendingRemove = api.Client{}
		return m, nil
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// selectedClient returns the peer under the table cursor.
func (m Model) selectedClient() (api.Client, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.clients) {
		return api.Client{}, false
	}
	return m.clients[idx], true
}

// refreshRows rebuilds the table rows from the current join.
func (m *Model) refreshRows() {
	m.table.SetRows(joinRows(m.clients, m.snapshot, m.now()))
}

// joinRows joins peer records with their stats by public key. A peer with no
// matching stats renders explicit placeholders rather than failing or
// showing zeros.
func joinRows(clients []api.Client, snapshot *monitor.Snapshot, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(clients))
	for _, c := range clients {
		status := ui.SymbolOffline + " offline"
		handshake := absentStats
		up, down := absentStats, absentStats

		if stats, ok := snapshot.Lookup(c.PublicKey); ok {
			if monitor.Online(stats.LastHandshakeSecs, now) {
				status = ui.SymbolOnline + " online"
			}
			handshake = monitor.FormatHandshakeAge(stats.LastHandshakeSecs, now)
			up = monitor.FormatBytes(stats.TxBytes)
			down = monitor.FormatBytes(stats.RxBytes)
		}

		enabled := "yes"
		if !c.IsEnabled() {
			enabled = "no"
		}

		rows = append(rows, table.Row{c.Name, c.IPv4, status, handshake, up, down, enabled})
	}
	return rows
}

// tickCmd schedules the next stats refresh. The loop ends with the program:
// bubbletea drops the pending tick when the program quits, so no timer
// outlives the view.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchStatsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		stats, err := m.stats.GetStats(ctx)
		return statsMsg{stats: stats, err: err, time: time.Now()}
	}
}

func (m Model) fetchClientsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		clients, err := m.registry.List(ctx)
		return clientsMsg{clients: clients, err: err}
	}
}

func (m Model) createCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := m.registry.Create(ctx, name)
		return createDoneMsg{err: err}
	}
}

func (m Model) toggleCmd(id string, enable bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var err error
		action := "disable"
		if enable {
			action = "enable"
			err = m.registry.Enable(ctx, id)
		} else {
			err = m.registry.Disable(ctx, id)
		}
		return actionDoneMsg{action: action, err: err}
	}
}

func (m Model) removeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return actionDoneMsg{action: "remove", err: m.registry.Remove(ctx, id)}
	}
}

// summarize flattens a structured error to its first line for the status bar.
func summarize(err error) string {
	text := strings.TrimSpace(strings.TrimPrefix(err.Error(), "✗"))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
