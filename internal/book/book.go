// Package book implements the in-memory contact record store.
//
// A Book owns the working list of contacts and is the sole writer of the
// backing file: every mutation validates its input, applies the change to a
// copy of the list, persists the copy, and only then commits it. A failed
// save therefore leaves the visible list exactly as it was.
package book

import (
	"errors"
	"fmt"

	"github.com/smileynet/rolodex/internal/contact"
)

// Sentinel errors for caller-checkable conditions.
var (
	// ErrNotFound indicates an operation targeted an index outside the list.
	ErrNotFound = errors.New("book: contact not found")
	// ErrDuplicatePhone indicates another record already holds the phone number.
	ErrDuplicatePhone = errors.New("book: duplicate phone number")
)

// Storage persists the full contact list. Implemented by store.FileStore.
type Storage interface {
	Load() ([]contact.Contact, error)
	Save([]contact.Contact) error
}

// Book is the record store: it owns the in-memory contact list and flushes
// it through its Storage on every mutation.
type Book struct {
	contacts []contact.Contact
	storage  Storage
	rules    contact.Rules
}

// New creates a Book over an initial contact list.
// The list is copied; callers keep ownership of their slice.
func New(initial []contact.Contact, storage Storage, rules contact.Rules) *Book {
	return &Book{
		contacts: append([]contact.Contact(nil), initial...),
		storage:  storage,
		rules:    rules,
	}
}

// Open loads the persisted list and returns a Book over it.
// A load failure still yields a usable empty Book alongside the error, so
// callers can warn and continue with an empty book.
func Open(storage Storage, rules contact.Rules) (*Book, error) {
	contacts, err := storage.Load()
	return New(contacts, storage, rules), err
}

// Reload replaces the in-memory list with the persisted one.
func (b *Book) Reload() error {
	contacts, err := b.storage.Load()
	if err != nil {
		return err
	}
	b.contacts = contacts
	return nil
}

// All returns a copy of the current contact list.
func (b *Book) All() []contact.Contact {
	return append([]contact.Contact(nil), b.contacts...)
}

// Len returns the number of contacts in the book.
func (b *Book) Len() int {
	return len(b.contacts)
}

// At returns the contact at index i (0-based).
func (b *Book) At(i int) (contact.Contact, error) {
	if i < 0 || i >= len(b.contacts) {
		return contact.Contact{}, fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	return b.contacts[i], nil
}

// Add validates c and appends it to the book, persisting the new list.
func (b *Book) Add(c contact.Contact) error {
	c = contact.Normalize(c)
	if err := contact.Validate(c, b.rules); err != nil {
		return err
	}
	if i := b.indexByPhone(c.Phone); i >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePhone, c.Phone)
	}

	next := append(b.All(), c)
	return b.commit(next)
}

// Update validates c and replaces the contact at index i, persisting the
// new list. The phone may stay the same; it may not collide with another
// record's phone.
func (b *Book) Update(i int, c contact.Contact) error {
	if i < 0 || i >= len(b.contacts) {
		return fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	c = contact.Normalize(c)
	if err := contact.Validate(c, b.rules); err != nil {
		return err
	}
	if j := b.indexByPhone(c.Phone); j >= 0 && j != i {
		return fmt.Errorf("%w: %s", ErrDuplicatePhone, c.Phone)
	}

	next := b.All()
	next[i] = c
	return b.commit(next)
}

// Delete removes the contact at index i, persisting the new list.
func (b *Book) Delete(i int) error {
	if i < 0 || i >= len(b.contacts) {
		return fmt.Errorf("%w: index %d", ErrNotFound, i)
	}

	next := b.All()
	next = append(next[:i], next[i+1:]...)
	return b.commit(next)
}

// Clear removes every contact and persists an empty list.
func (b *Book) Clear() error {
	return b.commit([]contact.Contact{})
}

// Replace swaps the entire list for contacts, validating each record first.
// Used by import in replace mode.
func (b *Book) Replace(contacts []contact.Contact) error {
	next := make([]contact.Contact, 0, len(contacts))
	seen := make(map[string]bool, len(contacts))
	for _, c := range contacts {
		c = contact.Normalize(c)
		if err := contact.Validate(c, b.rules); err != nil {
			return err
		}
		if seen[c.Phone] {
			return fmt.Errorf("%w: %s", ErrDuplicatePhone, c.Phone)
		}
		seen[c.Phone] = true
		next = append(next, c)
	}
	return b.commit(next)
}

// Find returns the index of the record holding phone.
// Phones are unique within a book, so this identifies a single record.
func (b *Book) Find(phone string) (int, error) {
	i := b.indexByPhone(phone)
	if i < 0 {
		return 0, fmt.Errorf("%w: phone %s", ErrNotFound, phone)
	}
	return i, nil
}

// indexByPhone returns the index of the record holding phone, or -1.
func (b *Book) indexByPhone(phone string) int {
	for i, c := range b.contacts {
		if c.Phone == phone {
			return i
		}
	}
	return -1
}

// commit persists next and, on success, makes it the current list.
func (b *Book) commit(next []contact.Contact) error {
	if err := b.storage.Save(next); err != nil {
		return err
	}
	b.contacts = next
	return nil
}
