package browse

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/rolodex/internal/contact"
	"github.com/smileynet/rolodex/internal/query"
)

// CursorMarker is the prefix shown on the selected contact row.
const CursorMarker = "▸ "

// listState manages the contact rows, cursor, filter, and sort order
// for the browser's left pane.
type listState struct {
	contacts  []contact.Contact // full book contents
	rows      []contact.Contact // filtered and sorted view
	cursor    int
	filter    string
	filtering bool // filter prompt is capturing keystrokes
	sortKey   string
	err       error
}

// newListState returns a listState with the given initial sort key.
func newListState(sortKey string) listState {
	return listState{sortKey: sortKey}
}

// apply replaces the underlying contacts (or records a load error) and
// rebuilds the visible rows.
func (ls listState) apply(contacts []contact.Contact, err error) listState {
	if err != nil {
		ls.err = err
		ls.contacts = nil
	} else {
		ls.err = nil
		ls.contacts = append([]contact.Contact(nil), contacts...)
	}
	return ls.rebuild()
}

// rebuild recomputes rows from the filter and sort key, clamping the cursor.
func (ls listState) rebuild() listState {
	rows := ls.contacts
	if ls.filter != "" {
		rows = query.Search(rows, ls.filter)
	}
	ls.rows = query.SortBy(rows, ls.sortKey)
	if ls.cursor >= len(ls.rows) {
		ls.cursor = len(ls.rows) - 1
	}
	if ls.cursor < 0 {
		ls.cursor = 0
	}
	return ls
}

// Update processes messages for the list state.
func (ls listState) Update(msg tea.Msg) (listState, tea.Cmd) {
	switch msg := msg.(type) {
	case ContactsReloadedMsg:
		return ls.apply(msg.Contacts, msg.Err), nil

	case tea.KeyMsg:
		if ls.filtering {
			return ls.handleFilterKey(msg)
		}
		return ls.handleKey(msg)
	}

	return ls, nil
}

// handleFilterKey edits the active filter prompt.
func (ls listState) handleFilterKey(msg tea.KeyMsg) (listState, tea.Cmd) {
	switch msg.String() {
	case "enter":
		ls.filtering = false
		return ls, nil

	case "esc":
		ls.filtering = false
		ls.filter = ""
		return ls.rebuild(), nil

	case "backspace":
		if ls.filter != "" {
			ls.filter = ls.filter[:len(ls.filter)-1]
		}
		return ls.rebuild(), nil
	}

	if msg.Type == tea.KeyRunes {
		ls.filter += string(msg.Runes)
		return ls.rebuild(), nil
	}
	return ls, nil
}

func (ls listState) handleKey(msg tea.KeyMsg) (listState, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if len(ls.rows) > 0 {
			ls.cursor--
			if ls.cursor < 0 {
				ls.cursor = len(ls.rows) - 1
			}
		}
		return ls, nil

	case "down", "j":
		if len(ls.rows) > 0 {
			ls.cursor++
			if ls.cursor >= len(ls.rows) {
				ls.cursor = 0
			}
		}
		return ls, nil

	case "/":
		ls.filtering = true
		return ls, nil

	case "esc":
		if ls.filter != "" {
			ls.filter = ""
			return ls.rebuild(), nil
		}
		return ls, nil

	case "n":
		ls.sortKey = "name"
		return ls.rebuild(), nil

	case "p":
		ls.sortKey = "phone"
		return ls.rebuild(), nil

	case "e":
		ls.sortKey = "email"
		return ls.rebuild(), nil

	case "d":
		if selected, ok := ls.Selected(); ok {
			return ls, func() tea.Msg {
				return DeleteRequestMsg{Contact: selected}
			}
		}
		return ls, nil

	case "D":
		if len(ls.contacts) > 0 {
			return ls, func() tea.Msg { return ResetRequestMsg{} }
		}
		return ls, nil

	case "r":
		return ls, func() tea.Msg { return ReloadRequestMsg{} }
	}

	return ls, nil
}

// Selected returns the contact at the current cursor position,
// or false if the visible list is empty.
func (ls listState) Selected() (contact.Contact, bool) {
	if len(ls.rows) == 0 || ls.cursor < 0 || ls.cursor >= len(ls.rows) {
		return contact.Contact{}, false
	}
	return ls.rows[ls.cursor], true
}

// View renders the list pane content for the given dimensions.
func (ls listState) View(width, height int) string {
	var b strings.Builder

	if ls.filtering || ls.filter != "" {
		fmt.Fprintf(&b, "/%s\n\n", ls.filter)
	}

	switch {
	case ls.err != nil:
		fmt.Fprintf(&b, "Error: %s\n\nPress r to retry", ls.err)
		return b.String()

	case len(ls.rows) == 0 && ls.filter != "":
		fmt.Fprintf(&b, "No contacts match %q", ls.filter)
		return b.String()

	case len(ls.rows) == 0:
		b.WriteString("No contacts yet. Add one with: rolodex add")
		return b.String()
	}

	for i, c := range ls.rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == ls.cursor {
			b.WriteString(CursorMarker)
		} else {
			b.WriteString("  ")
		}
		b.WriteString(c.Name + " " + mutedText.Render("("+c.Phone+")"))
	}
	return b.String()
}
