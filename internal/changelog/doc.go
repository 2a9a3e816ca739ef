// Package changelog renders commit records into the Markdown changelog
// document and reads that document back.
//
// This package implements:
//   - Entry rendering: the boxed blame header, message, description,
//     affected files and filtered diff
//   - Document updates: strict newest-first prepending under a fixed header
//   - Parsing the document back into entries for display
//   - Terminal formatting, HTML export and change watching
//
// The document is plain text. Entries are only ever prepended; nothing in this
// package rewrites or removes an existing entry.
package changelog
