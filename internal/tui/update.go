package tui

import (
	"fmt"
	"strings"

	"launchpad-cli/internal/logx"
	"launchpad-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case changedMsg:
		m.committer.Notify()
		m.reloadKeepingSelection()
		return m, waitChanges(m.ctx, m.org.Changes())

	case queryMsg:
		m.reloadKeepingSelection()
		return m, waitQuery(m.ctx, m.search.Updates())

	case watchMsg:
		m.setStatus("roots changed, rescanning…", false)
		return m, tea.Batch(startRefresh(m.ctx, m.org), waitWatch(m.ctx, m.watchCh))

	case refreshMsg:
		m.reloadKeepingSelection()
		switch {
		case msg.Err != nil:
			m.setStatus("scan cancelled", true)
		case msg.Added > 0:
			m.setStatus(fmt.Sprintf("%d new apps", msg.Added), false)
		}
		return m, nil

	case launchMsg:
		if msg.err != nil {
			m.setStatus("launch failed: "+msg.err.Error(), true)
		} else {
			m.setStatus("launched "+msg.app.Name, false)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeRename:
			return m.updateRename(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

func (m *gridModel) reloadKeepingSelection() {
	id := ""
	if it := m.selected(); it != nil {
		id = it.ItemID()
	}
	m.reload()
	if m.openFolder != "" && m.items == nil {
		// The open folder was dissolved or emptied away.
		m.openFolder = ""
		m.reload()
	}
	m.selectID(id)
}

func (m gridModel) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.columns()
	picking := m.mode == modePickMove || m.mode == modePickGroup

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Right):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor+cols < len(m.items) {
			m.cursor += cols
		}

	case key.Matches(msg, m.keys.Back):
		switch {
		case picking:
			m.mode = modeNormal
			m.pickSrc = ""
			m.setStatus("", false)
		case m.openFolder != "":
			id := m.openFolder
			m.openFolder = ""
			m.reload()
			m.selectID(id)
		case m.search.Query() != "":
			m.input.SetValue("")
			m.search.SetQuery("")
			m.reload()
		}

	case key.Matches(msg, m.keys.Open):
		it := m.selected()
		if it == nil {
			return m, nil
		}
		if picking {
			return m.finishPick(it)
		}
		switch v := it.(type) {
		case model.Folder:
			m.openFolder = v.ID
			m.cursor = 0
			m.reload()
		case model.App:
			m.setStatus("launching "+v.Name+"…", false)
			return m, launchApp(m.ctx, m.org, v.ID)
		}

	case picking:
		// Everything else is ignored while a drop target is being picked.

	case key.Matches(msg, m.keys.Search):
		if m.openFolder != "" {
			return m, nil
		}
		m.mode = modeSearch
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Move), key.Matches(msg, m.keys.Group):
		it := m.selected()
		if it == nil || m.openFolder != "" {
			return m, nil
		}
		m.pickSrc = it.ItemID()
		if key.Matches(msg, m.keys.Move) {
			m.mode = modePickMove
			m.setStatus(fmt.Sprintf("move %s: pick a target, enter to drop", it.ItemName()), false)
		} else {
			m.mode = modePickGroup
			m.setStatus(fmt.Sprintf("group %s: pick a target, enter to drop", it.ItemName()), false)
		}

	case key.Matches(msg, m.keys.Rename):
		f, ok := m.renameTarget()
		if !ok {
			return m, nil
		}
		m.mode = modeRename
		m.input.Prompt = "name: "
		m.input.SetValue(f.Name)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Dissolve):
		f, ok := m.renameTarget()
		if !ok {
			return m, nil
		}
		if m.org.Dissolve(f.ID) {
			m.openFolder = ""
			m.reload()
			m.selectID(firstAppID(f))
			m.setStatus("dissolved "+f.Name, false)
		}

	case key.Matches(msg, m.keys.Rescan):
		m.setStatus("scanning…", false)
		return m, startRefresh(m.ctx, m.org)
	}
	return m, nil
}

// renameTarget is the open folder, or the selected item when it is a folder.
func (m gridModel) renameTarget() (model.Folder, bool) {
	id := m.openFolder
	if id == "" {
		if it := m.selected(); it != nil {
			id = it.ItemID()
		}
	}
	items := m.org.Items()
	idx := items.IndexOf(id)
	if idx < 0 {
		return model.Folder{}, false
	}
	f, ok := items[idx].(model.Folder)
	return f, ok
}

func firstAppID(f model.Folder) string {
	if len(f.Items) == 0 {
		return ""
	}
	return f.Items[0].ID
}

func (m gridModel) finishPick(target model.Item) (tea.Model, tea.Cmd) {
	src := m.pickSrc
	op := "move"
	var changed bool
	if m.mode == modePickGroup {
		op = "group"
		changed = m.org.Group(src, target.ItemID())
	} else {
		changed = m.org.Move(src, target.ItemID())
	}
	m.mode = modeNormal
	m.pickSrc = ""
	logx.WithItem(m.log, target).Debug("drop", "op", op, "src", src, "changed", changed)
	if !changed {
		m.setStatus("nothing to "+op, false)
		return m, nil
	}
	m.setStatus("", false)
	m.reload()
	if op == "move" {
		m.selectID(src)
	} else {
		m.selectID(target.ItemID())
		if it := m.selected(); it == nil || it.ItemID() != target.ItemID() {
			m.selectFolderHolding(src)
		}
	}
	return m, nil
}

// selectFolderHolding moves the cursor to the folder that now holds appID.
func (m *gridModel) selectFolderHolding(appID string) {
	for i, it := range m.items {
		if f, ok := it.(model.Folder); ok {
			for _, a := range f.Items {
				if a.ID == appID {
					m.cursor = i
					return
				}
			}
		}
	}
}

func (m gridModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		m.input.SetValue("")
		m.search.SetQuery("")
		m.reload()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search.SetQuery(m.input.Value())
	if m.input.Value() == "" {
		m.reload()
	}
	return m, cmd
}

func (m gridModel) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.restoreSearchInput()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		f, ok := m.renameTarget()
		m.mode = modeNormal
		m.restoreSearchInput()
		if !ok {
			return m, nil
		}
		if name == "" {
			m.setStatus("folder name cannot be empty", true)
			return m, nil
		}
		if m.org.RenameFolder(f.ID, name) {
			m.reloadKeepingSelection()
			m.setStatus("renamed to "+name, false)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *gridModel) restoreSearchInput() {
	m.input.Blur()
	m.input.Prompt = "/ "
	m.input.SetValue(m.search.Query())
}


