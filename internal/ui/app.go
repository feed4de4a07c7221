package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bvale/kudos/internal/api"
	"github.com/bvale/kudos/internal/engine"
	"github.com/bvale/kudos/internal/prefs"
	"github.com/bvale/kudos/internal/session"
	"github.com/bvale/kudos/internal/store"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Engine    *engine.Engine
	Session   *session.Signals
	Items     []string
	ThemeName string
	PrefsPath string

	// Credentials for the interactive sign-in key. Empty disables it.
	User  string
	Token string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	eng       *engine.Engine
	sig       *session.Signals
	prefsPath string

	items     []string
	reactions map[string]store.Reaction
	selected  int

	user  string
	token string

	theme  Theme
	styles Styles
	keys   keyMap
	width  int
	height int

	status string

	updates chan store.Reaction
	unsubs  []func()
}

// updateMsg carries a changed reaction state into the Bubble Tea loop.
type updateMsg store.Reaction

// errMsg carries a failed operation's error into the status line.
type errMsg struct{ err error }

// resyncedMsg reports a completed manual resync.
type resyncedMsg struct{}

// NewModel builds the root model and subscribes it to every watched item.
func NewModel(opts Options) *Model {
	theme := ThemeByName(opts.ThemeName)
	m := &Model{
		ctx:       opts.Context,
		eng:       opts.Engine,
		sig:       opts.Session,
		prefsPath: opts.PrefsPath,
		items:     opts.Items,
		reactions: make(map[string]store.Reaction, len(opts.Items)),
		user:      opts.User,
		token:     opts.Token,
		theme:     theme,
		styles:    theme.Styles(),
		keys:      DefaultKeyMap(),
		updates:   make(chan store.Reaction, 64),
	}
	m.subscribeAll()
	return m
}

// subscribeAll registers a store subscription per watched item. Sends into
// the update channel never block: when the channel is full the notification
// is dropped, and the next one carries the newer state anyway.
func (m *Model) subscribeAll() {
	for _, itemID := range m.items {
		unsub := m.eng.Subscribe(itemID, func(r store.Reaction) {
			select {
			case m.updates <- r:
			default:
			}
		})
		m.unsubs = append(m.unsubs, unsub)
	}
}

// Init starts the update pump and loads every watched item.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForUpdate()}
	for _, itemID := range m.items {
		cmds = append(cmds, m.loadCmd(itemID))
	}
	return tea.Batch(cmds...)
}

// waitForUpdate blocks on the update channel and turns the next changed
// reaction into a message.
func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-m.updates:
			return updateMsg(r)
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

func (m *Model) loadCmd(itemID string) tea.Cmd {
	return func() tea.Msg {
		return updateMsg(m.eng.Reaction(m.ctx, itemID))
	}
}

func (m *Model) reactCmd(itemID, kind string) tea.Cmd {
	return func() tea.Msg {
		st, err := m.eng.UpdateReaction(m.ctx, itemID, kind)
		if err != nil {
			return errMsg{err: err}
		}
		return updateMsg(st)
	}
}

func (m *Model) resyncCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.eng.Resync(m.ctx); err != nil {
			return errMsg{err: err}
		}
		return resyncedMsg{}
	}
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case updateMsg:
		r := store.Reaction(msg)
		m.reactions[r.ItemID] = r
		return m, m.waitForUpdate()

	case errMsg:
		m.status = msg.err.Error()
		return m, nil

	case resyncedMsg:
		m.status = "resynced"
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		for _, unsub := range m.unsubs {
			unsub()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.items)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.React):
		return m, m.toggleReaction(msg.String())

	case key.Matches(msg, m.keys.ClearOwn):
		m.status = ""
		return m, m.reactCmd(m.items[m.selected], "")

	case key.Matches(msg, m.keys.Resync):
		m.status = "resyncing..."
		return m, m.resyncCmd()

	case key.Matches(msg, m.keys.SignIn):
		if m.user == "" || m.token == "" {
			m.status = "no credentials configured"
			return m, nil
		}
		m.sig.Establish(m.user, m.token)
		m.status = "signed in as " + m.user
		return m, nil

	case key.Matches(msg, m.keys.SignOut):
		m.sig.End()
		m.status = "signed out"
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = NextTheme(m.theme.Name)
		m.styles = m.theme.Styles()
		m.savePrefs()
		return m, nil
	}
	return m, nil
}

// toggleReaction maps a digit key onto the reaction vocabulary. Pressing the
// key for the reaction already held clears it.
func (m *Model) toggleReaction(digit string) tea.Cmd {
	idx := int(digit[0] - '1')
	if idx < 0 || idx >= len(api.KnownKinds) {
		return nil
	}
	itemID := m.items[m.selected]
	kind := api.KnownKinds[idx]
	if m.eng.UserReaction(itemID) == kind {
		kind = ""
	}
	m.status = ""
	return m.reactCmd(itemID, kind)
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Items: m.items}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.status = "save prefs: " + err.Error()
	}
}

// Run starts the Bubble Tea program and blocks until it exits. Context
// cancellation is a normal shutdown, not an error.
func Run(opts Options) error {
	m := NewModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context.Err() != nil {
		return nil
	}
	return err
}
