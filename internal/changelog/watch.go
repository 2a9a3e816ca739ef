package changelog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the re-parsed document every time the file at
// s.Path is written, created or replaced. It watches the parent directory so
// atomic renames are observed. Watch blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, onChange func(*Changelog)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target := filepath.Clean(s.Path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logDebug("[changelog] %s: %s", event.Op, event.Name)
			onChange(s.Load())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching %s: %w", s.Path, err)
		}
	}
}

// NewEntries returns the entries in next that are newer than the newest entry
// seen in prev. Entries are only ever prepended, so the new ones are the
// prefix of next that precedes prev's count.
func NewEntries(prev, next *Changelog) []Entry {
	if prev == nil {
		return next.Entries
	}
	added := next.GetEntryCount() - prev.GetEntryCount()
	if added <= 0 {
		return nil
	}
	return next.Entries[:added]
}
