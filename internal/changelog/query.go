package changelog

import "strings"

// GetLastN returns the N most recent entries, newest first.
// If N is greater than the number of entries, all entries are returned.
func (c *Changelog) GetLastN(n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}
	if len(c.Entries) <= n {
		return c.Entries
	}
	return c.Entries[:n]
}

// GetEntryCount returns the number of entries in the document.
func (c *Changelog) GetEntryCount() int {
	return len(c.Entries)
}

// Latest returns the newest entry, or nil for an empty document.
func (c *Changelog) Latest() *Entry {
	if len(c.Entries) == 0 {
		return nil
	}
	return &c.Entries[0]
}

// ByAuthor returns a changelog holding only the entries written by email.
// Matching is case-insensitive.
func (c *Changelog) ByAuthor(email string) *Changelog {
	out := &Changelog{}
	for _, e := range c.Entries {
		if strings.EqualFold(e.Email, email) {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}

// TouchingFile returns a changelog holding only the entries whose affected
// files include path.
func (c *Changelog) TouchingFile(path string) *Changelog {
	out := &Changelog{}
	for _, e := range c.Entries {
		for _, f := range e.Files {
			if f == path {
				out.Entries = append(out.Entries, e)
				break
			}
		}
	}
	return out
}
