// Package browse implements a two-pane TUI for walking the contact book:
// a contact list on the left, the selected record's detail on the right,
// with incremental filtering, sort toggles, and confirm screens for the
// destructive actions.
package browse

import "github.com/smileynet/rolodex/internal/contact"

// Mode represents the current browser view mode.
type Mode int

const (
	ModeList          Mode = iota // Browsing the contact list with detail pane.
	ModeConfirmDelete             // Confirming deletion of the selected contact.
	ModeConfirmReset              // Confirming deletion of every contact.
)

// Focus represents which pane has keyboard focus.
type Focus int

const (
	PaneLeft  Focus = iota // Left pane (contact list) has focus.
	PaneRight              // Right pane (contact detail) has focus.
)

// Bookkeeper is the record-store surface the browser drives.
// Implemented by *book.Book.
type Bookkeeper interface {
	All() []contact.Contact
	Find(phone string) (int, error)
	Delete(i int) error
	Clear() error
	Reload() error
}

// --- tea.Msg types ---

// ContactsReloadedMsg carries the book contents after an (attempted) reload.
type ContactsReloadedMsg struct {
	Contacts []contact.Contact
	Err      error
}

// DeleteRequestMsg signals the user asked to delete the selected contact.
type DeleteRequestMsg struct {
	Contact contact.Contact
}

// ResetRequestMsg signals the user asked to clear the whole book.
type ResetRequestMsg struct{}

// ReloadRequestMsg signals that the book should be re-read from disk.
// The list emits this on 'r'; Model.Update intercepts it.
type ReloadRequestMsg struct{}

// ActionDoneMsg carries the outcome of a delete or reset.
type ActionDoneMsg struct {
	Status string
	Err    error
}
