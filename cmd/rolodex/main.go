package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/rolodex/internal/book"
	"github.com/smileynet/rolodex/internal/browse"
	"github.com/smileynet/rolodex/internal/config"
	"github.com/smileynet/rolodex/internal/contact"
	"github.com/smileynet/rolodex/internal/query"
	"github.com/smileynet/rolodex/internal/store"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for rolodex.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Add     AddCmd           `cmd:"" help:"Add a contact."`
	List    ListCmd          `cmd:"" help:"List all contacts."`
	Search  SearchCmd        `cmd:"" help:"Search contacts by name, phone, or email."`
	Update  UpdateCmd        `cmd:"" help:"Update a contact by listing index."`
	Delete  DeleteCmd        `cmd:"" help:"Delete a contact by listing index."`
	Reset   ResetCmd         `cmd:"" help:"Delete every contact."`
	Export  ExportCmd        `cmd:"" help:"Write the contact book as JSON or YAML."`
	Import  ImportCmd        `cmd:"" help:"Load contacts from a JSON or YAML file."`
	Browse  BrowseCmd        `cmd:"" help:"Open the interactive contact browser."`
}

// bookFlags are shared by every command that touches the contact book.
type bookFlags struct {
	File string `help:"Contacts file path (overrides config)." type:"path"`
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/rolodex/config.yaml"),
		".rolodex/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openBook resolves config and opens the book. A load failure on the
// contacts file is a warning, not a failure: the book starts empty and the
// next save overwrites the file.
func (f bookFlags) openBook(w io.Writer) (*book.Book, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, &setupError{err: err}
	}
	if f.File != "" {
		cfg.Book.Path = f.File
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, &setupError{err: err}
	}

	fs := store.NewFileStore(cfg.Book.Path)
	rules := contact.Rules{PhoneMinDigits: cfg.Validation.PhoneMinDigits}
	b, err := book.Open(fs, rules)
	if err != nil {
		fmt.Fprintf(w, "warning: starting with an empty book: %v\n", err)
	}
	return b, cfg, nil
}

// printContacts renders a numbered listing with aligned columns.
func printContacts(w io.Writer, contacts []contact.Contact) {
	nameWidth, phoneWidth := 0, 0
	for _, c := range contacts {
		if len(c.Name) > nameWidth {
			nameWidth = len(c.Name)
		}
		if len(c.Phone) > phoneWidth {
			phoneWidth = len(c.Phone)
		}
	}
	for i, c := range contacts {
		fmt.Fprintf(w, "%3d  %-*s  %-*s  %s\n", i+1, nameWidth, c.Name, phoneWidth, c.Phone, c.Email)
	}
}

// confirm prints prompt and reads a y/N answer from r.
func confirm(w io.Writer, r io.Reader, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// --- add ---

// AddCmd validates and appends a new contact.
type AddCmd struct {
	bookFlags
	Name  string `arg:"" help:"Contact name."`
	Phone string `arg:"" help:"Phone number (digits only)."`
	Email string `arg:"" help:"Email address."`
}

// Run executes the add command.
func (a *AddCmd) Run() error {
	b, _, err := a.openBook(os.Stdout)
	if err != nil {
		return err
	}
	return a.run(os.Stdout, b)
}

// run executes the add with the given book, enabling testable wiring.
func (a *AddCmd) run(w io.Writer, b *book.Book) error {
	c := contact.Contact{Name: a.Name, Phone: a.Phone, Email: a.Email}
	if err := b.Add(c); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	fmt.Fprintf(w, "Added %s (%d contacts)\n", c.Name, b.Len())
	return nil
}

// --- list ---

// ListCmd prints the contact book.
type ListCmd struct {
	bookFlags
	Sort string `help:"Sort order: name, phone, or email (default from config)."`
}

// Run executes the list command.
func (l *ListCmd) Run() error {
	b, cfg, err := l.openBook(os.Stdout)
	if err != nil {
		return err
	}
	return l.run(os.Stdout, b, cfg)
}

// run executes the list with the given book, enabling testable wiring.
func (l *ListCmd) run(w io.Writer, b *book.Book, cfg *config.Config) error {
	sortKey := l.Sort
	if sortKey == "" {
		sortKey = cfg.Display.DefaultSort
	}
	switch sortKey {
	case "", "none", "name", "phone", "email":
	default:
		return fmt.Errorf("list: unknown sort key %q", sortKey)
	}

	contacts := query.SortBy(b.All(), sortKey)
	if len(contacts) == 0 {
		fmt.Fprintln(w, "No contacts")
		return nil
	}
	printContacts(w, contacts)
	return nil
}

// --- search ---

// SearchCmd prints contacts matching a query.
type SearchCmd struct {
	bookFlags
	Query string `arg:"" help:"Substring to match against name, phone, or email."`
}

// Run executes the search command.
func (s *SearchCmd) Run() error {
	b, _, err := s.openBook(os.Stdout)
	if err != nil {
		return err
	}
	return s.run(os.Stdout, b)
}

// run executes the search with the given book, enabling testable wiring.
func (s *SearchCmd) run(w io.Writer, b *book.Book) error {
	matches := query.Search(b.All(), s.Query)
	if len(matches) == 0 {
		fmt.Fprintf(w, "No contacts match %q\n", s.Query)
		return nil
	}
	printContacts(w, matches)
	fmt.Fprintf(w, "%d of %d contacts match %q\n", len(matches), b.Len(), s.Query)
	return nil
}

// --- update ---

// UpdateCmd replaces fields of an existing contact. Unset flags keep the
// current values.
type UpdateCmd struct {
	bookFlags
	Index int    `arg:"" help:"1-based listing index of the contact to update."`
	Name  string `help:"New name."`
	Phone string `help:"New phone number."`
	Email string `help:"New email address."`
}

// Run executes the update command.
func (u *UpdateCmd) Run() error {
	b, _, err := u.openBook(os.Stdout)
	if err != nil {
		return err
	}
	return u.run(os.Stdout, b)
}

// run executes the update with the given book, enabling testable wiring.
func (u *UpdateCmd) run(w io.Writer, b *book.Book) error {
	current, err := b.At(u.Index - 1)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	next := current
	if u.Name != "" {
		next.Name = u.Name
	}
	if u.Phone != "" {
		next.Phone = u.Phone
	}
	if u.Email != "" {
		next.Email = u.Email
	}

	if err := b.Update(u.Index-1, next); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	fmt.Fprintf(w, "Updated %s\n", next.Name)
	return nil
}

// --- delete ---

// DeleteCmd removes a contact by listing index.
type DeleteCmd struct {
	bookFlags
	Index int  `arg:"" help:"1-based listing index of the contact to delete."`
	Yes   bool `help:"Skip the confirmation prompt." short:"y"`
}

// Run executes the delete command.
func (d *DeleteCmd) Run() error {
	b, _, err := d.openBook(os.Stdout)
	if err != nil {
		return err
	}
	return d.run(os.Stdout, os.Stdin, b)
}

// run executes the delete with the given book, enabling testable wiring.
func (d *DeleteCmd) run(w io.Writer, r io.Reader, b *book.Book) error {
	target, err := b.At(d.Index - 1)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if !d.Yes {
		prompt := fmt.Sprintf("Delete %s (%s)?", target.Name, target.Phone)
		if !confirm(w, r, prompt) {
			fmt.Fprintln(w, "Cancelled")
			return nil
		}
	}

	if err := b.Delete(d.Index - 1); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	fmt.Fprintf(w, "Deleted %s (%d contacts left)\n", target.Name, b.Len())
	return nil
}

// --- reset ---

// ResetCmd deletes every contact and persists an empty book.
type ResetCmd struct {
	bookFlags
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

// Run executes the reset command.
func (rc *ResetCmd) Run() error {
	b, _, err := rc.openBook(os.Stdout)
	if err != nil {
		return err
	}
	return rc.run(os.Stdout, os.Stdin, b)
}

// run executes the reset with the given book, enabling testable wiring.
func (rc *ResetCmd) run(w io.Writer, r io.Reader, b *book.Book) error {
	if !rc.Yes {
		prompt := fmt.Sprintf("Delete ALL %d contacts? This cannot be undone.", b.Len())
		if !confirm(w, r, prompt) {
			fmt.Fprintln(w, "Cancelled")
			return nil
		}
	}

	if err := b.Clear(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	fmt.Fprintln(w, "All contacts deleted")
	return nil
}

// --- export ---

// ExportCmd writes the book to a file or stdout.
type ExportCmd struct {
	bookFlags
	Path   string `arg:"" optional:"" help:"Destination file (stdout if omitted)." type:"path"`
	Format string `help:"Output format." enum:"json,yaml" default:"json"`
}

// Run executes the export command.
func (e *ExportCmd) Run() error {
	b, _, err := e.openBook(os.Stdout)
	if err != nil {
		return err
	}
	return e.run(os.Stdout, b)
}

// run executes the export with the given book, enabling testable wiring.
func (e *ExportCmd) run(w io.Writer, b *book.Book) error {
	contacts := b.All()
	if contacts == nil {
		contacts = []contact.Contact{}
	}

	var data []byte
	var err error
	switch e.Format {
	case "yaml":
		data, err = yaml.Marshal(contacts)
	default:
		data, err = json.MarshalIndent(contacts, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("export: marshaling: %w", err)
	}

	if e.Path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(e.Path, data, 0o644); err != nil {
		return fmt.Errorf("export: writing %s: %w", e.Path, err)
	}
	fmt.Fprintf(w, "Exported %d contacts to %s\n", len(contacts), e.Path)
	return nil
}

// --- import ---

// ImportCmd loads contacts from a JSON or YAML file into the book.
type ImportCmd struct {
	bookFlags
	Path    string `arg:"" help:"Source file (.json, .yaml, or .yml)." type:"path"`
	Replace bool   `help:"Replace the book instead of merging."`
}

// Run executes the import command.
func (ic *ImportCmd) Run() error {
	b, _, err := ic.openBook(os.Stdout)
	if err != nil {
		return err
	}
	return ic.run(os.Stdout, b)
}

// run executes the import with the given book, enabling testable wiring.
func (ic *ImportCmd) run(w io.Writer, b *book.Book) error {
	data, err := os.ReadFile(ic.Path)
	if err != nil {
		return fmt.Errorf("import: reading %s: %w", ic.Path, err)
	}

	var incoming []contact.Contact
	switch strings.ToLower(filepath.Ext(ic.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &incoming)
	default:
		err = json.Unmarshal(data, &incoming)
	}
	if err != nil {
		return fmt.Errorf("import: parsing %s: %w", ic.Path, err)
	}

	if ic.Replace {
		if err := b.Replace(incoming); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Fprintf(w, "Imported %d contacts (replaced book)\n", b.Len())
		return nil
	}

	added, skipped := 0, 0
	for _, c := range incoming {
		switch err := b.Add(c); {
		case err == nil:
			added++
		case errors.Is(err, book.ErrDuplicatePhone):
			skipped++
		default:
			return fmt.Errorf("import: %w", err)
		}
	}
	fmt.Fprintf(w, "Imported %d contacts (%d duplicates skipped, %d total)\n", added, skipped, b.Len())
	return nil
}

// --- browse ---

// BrowseCmd opens the interactive contact browser TUI.
type BrowseCmd struct {
	bookFlags
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the browser TUI.
func (bc *BrowseCmd) Run() error {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	b, cfg, err := bc.openBook(os.Stdout)
	if err != nil {
		return err
	}

	m := browse.NewModel(
		browse.WithBook(b),
		browse.WithSortKey(cfg.Display.DefaultSort),
	)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	return bc.run(isTTY, prog)
}

// run executes the tea program, enabling testable wiring.
func (bc *BrowseCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return &setupError{err: errors.New("browse: requires a terminal (TTY)")}
	}
	_, err := prog.Run()
	return err
}

// Exit codes.
const (
	exitSuccess = 0
	exitData    = 1
	exitSetup   = 2
)

// setupError marks configuration and environment failures so exitCode can
// distinguish them from data errors.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *setupError
	if errors.As(err, &se) {
		return exitSetup
	}
	return exitData
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Vars{"version": version + " " + commit + " " + date})
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
