package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// statusBarHeight is the number of lines reserved for the status line.
const statusBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Model is the root Bubble Tea model for the contact browser.
// It manages a two-pane layout with mode-based routing and focus management.
type Model struct {
	mode      Mode
	focus     Focus
	width     int
	height    int
	book      Bookkeeper
	list      listState
	confirm   confirmState
	help      help.Model
	status    string
	statusErr bool
}

// Option configures a Model.
type Option func(*Model)

// WithBook sets the record store the browser drives.
func WithBook(b Bookkeeper) Option {
	return func(m *Model) { m.book = b }
}

// WithSortKey sets the initial sort order of the list.
func WithSortKey(key string) Option {
	return func(m *Model) { m.list.sortKey = key }
}

// NewModel creates a browser Model in list mode with left-pane focus.
func NewModel(opts ...Option) Model {
	m := Model{
		mode:  ModeList,
		focus: PaneLeft,
		list:  newListState("none"),
		help:  help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init loads the contact list.
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// refreshCmd re-reads the book's current contents.
func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		if m.book == nil {
			return ContactsReloadedMsg{}
		}
		return ContactsReloadedMsg{Contacts: m.book.All()}
	}
}

// reloadCmd re-reads the contacts file from disk, then the book contents.
func (m Model) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		if m.book == nil {
			return ContactsReloadedMsg{}
		}
		if err := m.book.Reload(); err != nil {
			return ContactsReloadedMsg{Err: err}
		}
		return ContactsReloadedMsg{Contacts: m.book.All()}
	}
}

// deleteCmd removes the given contact from the book, addressing it by phone
// so filtering and sorting cannot misdirect the delete.
func (m Model) deleteCmd(target DeleteRequestMsg) tea.Cmd {
	return func() tea.Msg {
		i, err := m.book.Find(target.Contact.Phone)
		if err != nil {
			return ActionDoneMsg{Err: err}
		}
		if err := m.book.Delete(i); err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{Status: fmt.Sprintf("Deleted %s", target.Contact.Name)}
	}
}

// resetCmd clears the whole book.
func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.book.Clear(); err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{Status: "All contacts deleted"}
	}
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ContactsReloadedMsg:
		m.list = m.list.apply(msg.Contacts, msg.Err)
		if msg.Err != nil {
			m.status, m.statusErr = fmt.Sprintf("Load failed: %v", msg.Err), true
		}
		return m, nil

	case DeleteRequestMsg:
		m.mode = ModeConfirmDelete
		m.confirm = confirmState{kind: confirmDelete, target: msg.Contact}
		return m, nil

	case ResetRequestMsg:
		m.mode = ModeConfirmReset
		m.confirm = confirmState{kind: confirmReset, count: len(m.list.contacts)}
		return m, nil

	case ReloadRequestMsg:
		m.status, m.statusErr = "Reloaded", false
		return m, m.reloadCmd()

	case ActionDoneMsg:
		m.mode = ModeList
		if msg.Err != nil {
			m.status, m.statusErr = msg.Err.Error(), true
		} else {
			m.status, m.statusErr = msg.Status, false
		}
		return m, m.refreshCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes key messages with global and mode-specific routing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeConfirmDelete, ModeConfirmReset:
		switch msg.String() {
		case "enter":
			if m.mode == ModeConfirmReset {
				return m, m.resetCmd()
			}
			return m, m.deleteCmd(DeleteRequestMsg{Contact: m.confirm.target})
		case "esc", "q":
			m.mode = ModeList
			m.status, m.statusErr = "Cancelled", false
			return m, nil
		}
		return m, nil
	}

	// List mode. Global keys apply only while the filter prompt is inactive.
	if !m.list.filtering {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.focus == PaneLeft {
				m.focus = PaneRight
			} else {
				m.focus = PaneLeft
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome, the status line, and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - statusBarHeight - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the two-pane layout with status and help bars.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	var leftStyle, rightStyle lipgloss.Style
	if m.focus == PaneLeft {
		leftStyle = FocusedBorder()
		rightStyle = UnfocusedBorder()
	} else {
		leftStyle = UnfocusedBorder()
		rightStyle = FocusedBorder()
	}

	leftStyle = leftStyle.
		Width(leftWidth - borderChrome).
		Height(contentHeight)
	rightStyle = rightStyle.
		Width(rightWidth - borderChrome).
		Height(contentHeight)

	leftPane := leftStyle.Render(m.viewLeft(leftWidth-borderChrome, contentHeight))
	rightPane := rightStyle.Render(m.viewRight())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	statusView := m.status
	if m.statusErr {
		statusView = errorText.Render(m.status)
	}
	helpView := m.help.View(HelpBindings(m.mode, m.list.filtering))

	return lipgloss.JoinVertical(lipgloss.Left, panes, statusView, helpView)
}

// viewLeft renders the left pane content based on mode.
func (m Model) viewLeft(width, height int) string {
	switch m.mode {
	case ModeConfirmDelete, ModeConfirmReset:
		return m.confirm.View(width, height)
	default:
		return m.list.View(width, height)
	}
}

// viewRight renders the detail pane for the selected contact.
func (m Model) viewRight() string {
	if m.mode != ModeList {
		return ""
	}

	selected, ok := m.list.Selected()
	if !ok {
		return mutedText.Render("Nothing selected")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelText.Render("Name:"), selected.Name)
	fmt.Fprintf(&b, "%s %s\n", labelText.Render("Phone:"), selected.Phone)
	fmt.Fprintf(&b, "%s %s\n", labelText.Render("Email:"), selected.Email)

	if m.list.sortKey != "" && m.list.sortKey != "none" {
		fmt.Fprintf(&b, "\n%s", mutedText.Render("sorted by "+m.list.sortKey))
	}
	if m.list.filter != "" {
		fmt.Fprintf(&b, "\n%s", mutedText.Render(fmt.Sprintf("%d of %d match %q",
			len(m.list.rows), len(m.list.contacts), m.list.filter)))
	}
	return b.String()
}
