// Package query implements linear search and sorting over contact lists.
// All functions are pure: inputs are never mutated and sorts return copies.
package query

import (
	"sort"
	"strings"

	"github.com/smileynet/rolodex/internal/contact"
)

// Matches reports whether q is a case-insensitive substring of the
// contact's name, phone, or email. An empty query matches everything.
func Matches(c contact.Contact, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(c.Phone, q) ||
		strings.Contains(strings.ToLower(c.Email), q)
}

// Search returns the subset of contacts matching q. See Matches.
func Search(contacts []contact.Contact, q string) []contact.Contact {
	var matches []contact.Contact
	for _, c := range contacts {
		if Matches(c, q) {
			matches = append(matches, c)
		}
	}
	return matches
}

// SortByName returns a copy ordered by name, case-insensitive ascending.
func SortByName(contacts []contact.Contact) []contact.Contact {
	sorted := append([]contact.Contact(nil), contacts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}

// SortByPhone returns a copy ordered by phone, numeric ascending.
// Phones are digit strings of varying length, so numeric order is
// shorter-first, then lexicographic.
func SortByPhone(contacts []contact.Contact) []contact.Contact {
	sorted := append([]contact.Contact(nil), contacts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Phone, sorted[j].Phone
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return sorted
}

// SortByEmail returns a copy ordered by email, case-insensitive ascending,
// with empty emails last.
func SortByEmail(contacts []contact.Contact) []contact.Contact {
	sorted := append([]contact.Contact(nil), contacts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := strings.ToLower(sorted[i].Email), strings.ToLower(sorted[j].Email)
		if (a == "") != (b == "") {
			return a != ""
		}
		return a < b
	})
	return sorted
}

// SortBy applies the named sort key ("name", "phone", "email"). Unknown
// keys, including "none", return the list unchanged.
func SortBy(contacts []contact.Contact, key string) []contact.Contact {
	switch key {
	case "name":
		return SortByName(contacts)
	case "phone":
		return SortByPhone(contacts)
	case "email":
		return SortByEmail(contacts)
	default:
		return contacts
	}
}
