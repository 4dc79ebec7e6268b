package browse

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/rolodex/internal/contact"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func sampleContacts() []contact.Contact {
	return []contact.Contact{
		{Name: "Charlie", Phone: "555123", Email: "charlie@work.example"},
		{Name: "Alice", Phone: "1234567890", Email: "a@b.com"},
		{Name: "Bob", Phone: "99887", Email: "bob@example.org"},
	}
}

func TestListState_ApplyResetsCursorWithinBounds(t *testing.T) {
	// Given a list with the cursor past the end of a shrinking list
	ls := newListState("none")
	ls = ls.apply(sampleContacts(), nil)
	ls.cursor = 2

	// When a shorter list is applied
	ls = ls.apply(sampleContacts()[:1], nil)

	// Then the cursor is clamped
	if ls.cursor != 0 {
		t.Errorf("cursor = %d, want 0", ls.cursor)
	}
}

func TestListState_CursorWraps(t *testing.T) {
	// Given a three-row list
	ls := newListState("none")
	ls = ls.apply(sampleContacts(), nil)

	// When moving up from the top
	ls, _ = ls.Update(keyMsg("up"))

	// Then the cursor wraps to the bottom
	if ls.cursor != 2 {
		t.Errorf("cursor = %d, want 2", ls.cursor)
	}

	// When moving down from the bottom
	ls, _ = ls.Update(keyMsg("down"))

	// Then the cursor wraps to the top
	if ls.cursor != 0 {
		t.Errorf("cursor = %d, want 0", ls.cursor)
	}
}

func TestListState_FilterNarrowsRows(t *testing.T) {
	// Given a list with a mix of contacts
	ls := newListState("none")
	ls = ls.apply(sampleContacts(), nil)

	// When the filter prompt is opened and "bo" typed
	ls, _ = ls.Update(keyMsg("/"))
	if !ls.filtering {
		t.Fatal("filtering = false after /, want true")
	}
	ls, _ = ls.Update(keyMsg("b"))
	ls, _ = ls.Update(keyMsg("o"))

	// Then only Bob remains visible
	if len(ls.rows) != 1 || ls.rows[0].Name != "Bob" {
		t.Fatalf("rows = %+v, want only Bob", ls.rows)
	}

	// When enter accepts the filter
	ls, _ = ls.Update(keyMsg("enter"))

	// Then the prompt closes but the filter stays applied
	if ls.filtering {
		t.Error("filtering = true after enter, want false")
	}
	if len(ls.rows) != 1 {
		t.Errorf("rows len = %d, want 1", len(ls.rows))
	}

	// When esc clears the filter
	ls, _ = ls.Update(keyMsg("esc"))

	// Then all rows return
	if len(ls.rows) != 3 {
		t.Errorf("rows len = %d, want 3", len(ls.rows))
	}
}

func TestListState_FilterBackspace(t *testing.T) {
	// Given an active filter prompt holding "bo"
	ls := newListState("none")
	ls = ls.apply(sampleContacts(), nil)
	ls, _ = ls.Update(keyMsg("/"))
	ls, _ = ls.Update(keyMsg("b"))
	ls, _ = ls.Update(keyMsg("o"))

	// When backspace is pressed
	ls, _ = ls.Update(keyMsg("backspace"))

	// Then the filter shrinks and rows rebuild
	if ls.filter != "b" {
		t.Errorf("filter = %q, want %q", ls.filter, "b")
	}
	// "b" matches Bob (name, email) and Alice (email a@b.com).
	if len(ls.rows) != 2 {
		t.Errorf("rows len = %d, want 2", len(ls.rows))
	}
}

func TestListState_SortToggles(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantFirst string
	}{
		{name: "sort by name", key: "n", wantFirst: "Alice"},
		{name: "sort by phone", key: "p", wantFirst: "Bob"},     // 99887 is numerically smallest
		{name: "sort by email", key: "e", wantFirst: "Alice"},   // a@b.com
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given an unsorted list
			ls := newListState("none")
			ls = ls.apply(sampleContacts(), nil)

			// When the sort key is pressed
			ls, _ = ls.Update(keyMsg(tt.key))

			// Then the first row reflects the new order
			if ls.rows[0].Name != tt.wantFirst {
				t.Errorf("rows[0].Name = %q, want %q", ls.rows[0].Name, tt.wantFirst)
			}
		})
	}
}

func TestListState_DeleteEmitsRequestForSelected(t *testing.T) {
	// Given a sorted list with the cursor on the second row
	ls := newListState("name")
	ls = ls.apply(sampleContacts(), nil)
	ls = ls.rebuild()
	ls, _ = ls.Update(keyMsg("down")) // Bob

	// When d is pressed
	ls, cmd := ls.Update(keyMsg("d"))
	if cmd == nil {
		t.Fatal("Update(d) cmd = nil, want DeleteRequestMsg cmd")
	}

	// Then the emitted request names the selected contact
	msg, ok := cmd().(DeleteRequestMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want DeleteRequestMsg", cmd())
	}
	if msg.Contact.Name != "Bob" {
		t.Errorf("request contact = %q, want %q", msg.Contact.Name, "Bob")
	}
}

func TestListState_DeleteOnEmptyListDoesNothing(t *testing.T) {
	// Given an empty list
	ls := newListState("none")

	// When d is pressed
	_, cmd := ls.Update(keyMsg("d"))

	// Then no request is emitted
	if cmd != nil {
		t.Error("Update(d) cmd != nil, want nil on empty list")
	}
}

func TestListState_ResetEmitsRequest(t *testing.T) {
	// Given a populated list
	ls := newListState("none")
	ls = ls.apply(sampleContacts(), nil)

	// When D is pressed
	_, cmd := ls.Update(keyMsg("D"))
	if cmd == nil {
		t.Fatal("Update(D) cmd = nil, want ResetRequestMsg cmd")
	}

	// Then a reset request is emitted
	if _, ok := cmd().(ResetRequestMsg); !ok {
		t.Errorf("cmd() = %T, want ResetRequestMsg", cmd())
	}
}

func TestListState_View(t *testing.T) {
	// Given a list with a cursor on the first row
	ls := newListState("name")
	ls = ls.apply(sampleContacts(), nil)

	// When View is rendered
	out := ls.View(60, 20)

	// Then the selected row carries the cursor marker
	if !strings.Contains(out, CursorMarker+"Alice") {
		t.Errorf("View() missing cursor on Alice:\n%s", out)
	}
	if !strings.Contains(out, "Charlie") {
		t.Errorf("View() missing Charlie:\n%s", out)
	}
}

func TestListState_ViewEmpty(t *testing.T) {
	// Given an empty list
	ls := newListState("none")
	ls = ls.apply(nil, nil)

	// When View is rendered
	out := ls.View(60, 20)

	// Then the empty hint is shown
	if !strings.Contains(out, "No contacts") {
		t.Errorf("View() = %q, want empty hint", out)
	}
}
