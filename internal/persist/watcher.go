package persist

import (
	"context"
	"log"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const rescanDebounce = 100 * time.Millisecond

// watchState holds everything the external-change watcher mutates.
type watchState struct {
	mu          sync.Mutex
	debounce    *time.Timer
	sessionHook func(SessionMarker)
	lastApplied map[string]string
	lastSession *SessionMarker
}

func newWatchState() *watchState {
	return &watchState{}
}

// OnSessionChange registers the hook invoked when another process writes the
// session marker. Must be called before Watch.
func (a *Adapter) OnSessionChange(fn func(SessionMarker)) {
	a.watch.mu.Lock()
	a.watch.sessionHook = fn
	a.watch.mu.Unlock()
}

// Watch observes the data directory for writes from other processes and
// feeds them back into the store and the session hook. It returns once the
// watcher is installed; delivery runs on a background goroutine until ctx is
// cancelled.
func (a *Adapter) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(a.dir); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				a.stopDebounce()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				a.handleEvent(event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("storage watcher error: %v", err)
			}
		}
	}()
	return nil
}

func (a *Adapter) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	name := filepath.Base(event.Name)
	if name != reactionsFileName && name != sessionFileName {
		return
	}
	a.scheduleRescan()
}

// scheduleRescan debounces bursts of events (atomic writes produce several)
// into one rescan of both durable files.
func (a *Adapter) scheduleRescan() {
	a.watch.mu.Lock()
	defer a.watch.mu.Unlock()

	if a.watch.debounce != nil {
		a.watch.debounce.Stop()
	}
	a.watch.debounce = time.AfterFunc(rescanDebounce, a.rescan)
}

func (a *Adapter) stopDebounce() {
	a.watch.mu.Lock()
	defer a.watch.mu.Unlock()
	if a.watch.debounce != nil {
		a.watch.debounce.Stop()
		a.watch.debounce = nil
	}
}

func (a *Adapter) rescan() {
	a.applyExternalReactions()
	a.applyExternalSession()
}

// applyExternalReactions folds another process's blob into the store. Only
// the user's own reaction merges in; locally cached counts stay intact. Blobs
// this process wrote itself are skipped by origin id.
func (a *Adapter) applyExternalReactions() {
	var b blob
	ok, err := readJSON(a.reactionsPath(), &b)
	if err != nil {
		log.Printf("external reaction blob unreadable: %v", err)
		return
	}
	if !ok || b.Origin == a.origin {
		return
	}

	a.watch.mu.Lock()
	unchanged := reflect.DeepEqual(a.watch.lastApplied, b.Reactions)
	if !unchanged {
		a.watch.lastApplied = b.Reactions
	}
	a.watch.mu.Unlock()
	if unchanged {
		return
	}

	// Entries the foreign blob dropped are reactions the other process
	// cleared; clear them here too so both converge.
	touched := make(map[string]bool, len(b.Reactions))
	for itemID, kind := range b.Reactions {
		a.store.MergeUserReaction(itemID, kind)
		touched[itemID] = true
	}
	for itemID := range a.store.UserOwned() {
		if !touched[itemID] {
			a.store.MergeUserReaction(itemID, "")
			touched[itemID] = true
		}
	}
	for itemID := range touched {
		a.store.Notify(itemID)
	}
}

func (a *Adapter) applyExternalSession() {
	var m SessionMarker
	ok, err := readJSON(a.sessionPath(), &m)
	if err != nil {
		log.Printf("external session marker unreadable: %v", err)
		return
	}
	if !ok || m.Origin == a.origin {
		return
	}

	a.watch.mu.Lock()
	hook := a.watch.sessionHook
	unchanged := a.watch.lastSession != nil && *a.watch.lastSession == m
	if !unchanged {
		a.watch.lastSession = &m
	}
	a.watch.mu.Unlock()
	if unchanged || hook == nil {
		return
	}
	hook(m)
}
