package tui

import (
	"context"

	"launchpad-cli/internal/gitrepo"
	"launchpad-cli/internal/logx"
	"launchpad-cli/internal/model"
	"launchpad-cli/internal/organizer"
	"launchpad-cli/internal/search"
	"launchpad-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"pkt.systems/pslog"
)

const (
	tileWidth = 18
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modePickMove
	modePickGroup
	modeRename
)

type (
	changedMsg struct{}
	queryMsg   string
	watchMsg   struct{}
	refreshMsg organizer.RefreshResult
	launchMsg  struct {
		app model.App
		err error
	}
)

type gridModel struct {
	ctx   context.Context
	log   pslog.Logger
	org   *organizer.Organizer
	st    store.Store
	keys  keyMap
	help  help.Model
	input textinput.Model

	search    *search.Index
	watchCh   <-chan struct{}
	committer *gitrepo.DebouncedCommitter

	mode       mode
	items      model.Collection
	cursor     int
	openFolder string
	pickSrc    string

	status    string
	statusErr bool

	width  int
	height int
}

func newModel(ctx context.Context, opts Options) gridModel {
	in := textinput.New()
	in.Placeholder = "Search"
	in.CharLimit = 120
	in.Width = 30
	in.Prompt = "/ "

	m := gridModel{
		ctx:    ctx,
		log:    logx.Ctx(ctx),
		org:    opts.Organizer,
		st:     opts.Store,
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  in,
		search: search.New(opts.Debounce),
		width:  80,
		height: 24,
	}

	selected := ""
	if st, err := opts.Store.LoadTUIState(); err == nil && st != nil {
		selected = st.SelectedID
		m.openFolder = st.OpenFolderID
		if st.Query != "" {
			m.input.SetValue(st.Query)
			m.search.SetQuery(st.Query)
		}
	}
	m.reload()
	if m.openFolder != "" && m.items == nil {
		m.openFolder = ""
		m.reload()
	}
	m.selectID(selected)
	return m
}

func (m gridModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitChanges(m.ctx, m.org.Changes()),
		waitQuery(m.ctx, m.search.Updates()),
		startRefresh(m.ctx, m.org),
	}
	if m.watchCh != nil {
		cmds = append(cmds, waitWatch(m.ctx, m.watchCh))
	}
	return tea.Batch(cmds...)
}

func waitChanges(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func waitQuery(ctx context.Context, ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		select {
		case q := <-ch:
			return queryMsg(q)
		case <-ctx.Done():
			return nil
		}
	}
}

func waitWatch(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return watchMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func startRefresh(ctx context.Context, org *organizer.Organizer) tea.Cmd {
	ch := org.Refresh(ctx)
	return func() tea.Msg {
		return refreshMsg(<-ch)
	}
}

func launchApp(ctx context.Context, org *organizer.Organizer, id string) tea.Cmd {
	return func() tea.Msg {
		a, err := org.Launch(ctx, id)
		return launchMsg{app: a, err: err}
	}
}

// reload recomputes the visible items: the open folder's apps, or the top
// level filtered by the debounced query. items is nil when the open folder no
// longer exists.
func (m *gridModel) reload() {
	all := m.org.Items()
	if m.openFolder != "" {
		m.items = nil
		if idx := all.IndexOf(m.openFolder); idx >= 0 {
			if f, ok := all[idx].(model.Folder); ok {
				m.items = model.Collection{}
				for _, a := range f.Items {
					m.items = append(m.items, a)
				}
			}
		}
	} else {
		m.items = search.Match(all, m.search.Debounced())
	}
	m.clampCursor()
}

func (m *gridModel) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *gridModel) selectID(id string) {
	if id == "" {
		return
	}
	for i, it := range m.items {
		if it.ItemID() == id {
			m.cursor = i
			return
		}
	}
}

func (m gridModel) selected() model.Item {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return m.items[m.cursor]
}

func (m gridModel) columns() int {
	cols := m.width / tileWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (m *gridModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m gridModel) saveState() {
	st := &store.TUIState{
		Version:      1,
		OpenFolderID: m.openFolder,
		Query:        m.search.Query(),
	}
	if it := m.selected(); it != nil {
		st.SelectedID = it.ItemID()
	}
	if err := m.st.SaveTUIState(st); err != nil {
		m.log.Warn("tui state save failed", "err", err)
	}
}

