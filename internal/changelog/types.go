package changelog

import "time"

// Record is everything known about one commit at the time its changelog entry
// is written. Only the rendered form is persisted.
type Record struct {
	Message     string
	Description string
	Files       []string
	Diff        string
	Email       string
	Time        time.Time
}

// HasDescription reports whether a description was supplied.
func (r Record) HasDescription() bool {
	return r.Description != ""
}

// Entry is a record recovered from the changelog document.
// Date holds the header date text exactly as written; Time is its parsed
// value and is zero when the text could not be parsed.
type Entry struct {
	Record
	Date string
}

// Changelog is the parsed content of a changelog document, newest entry first.
type Changelog struct {
	Entries []Entry
}
