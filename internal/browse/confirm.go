package browse

import (
	"fmt"
	"strings"

	"github.com/smileynet/rolodex/internal/contact"
)

// confirmKind distinguishes the two destructive confirmations.
type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmReset
)

// confirmState holds the data needed for a confirmation screen.
type confirmState struct {
	kind   confirmKind
	target contact.Contact // the record at stake for confirmDelete
	count  int             // book size for confirmReset
}

// View renders the confirmation screen.
func (cs confirmState) View(width, height int) string {
	var b strings.Builder

	if cs.kind == confirmReset {
		cs.viewReset(&b)
	} else {
		cs.viewDelete(&b)
	}

	b.WriteString("\n\n  [Enter] Confirm   [Esc] Cancel")
	return b.String()
}

func (cs confirmState) viewDelete(b *strings.Builder) {
	b.WriteString("Delete this contact?\n")
	fmt.Fprintf(b, "\n  Name:  %s", cs.target.Name)
	fmt.Fprintf(b, "\n  Phone: %s", cs.target.Phone)
	fmt.Fprintf(b, "\n  Email: %s", cs.target.Email)
}

func (cs confirmState) viewReset(b *strings.Builder) {
	word := "contacts"
	if cs.count == 1 {
		word = "contact"
	}
	fmt.Fprintf(b, "Delete ALL %d %s?\n", cs.count, word)
	b.WriteString("\n  The contacts file is rewritten as an empty list.")
	b.WriteString("\n  This cannot be undone.")
}
