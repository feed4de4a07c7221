package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bvale/kudos/internal/store"
)

const (
	reactionsFileName = "reactions.json"
	sessionFileName   = "session.json"
)

// blob is the single durable value other processes observe: the user's own
// reaction choices, tagged with the writing process's origin id. Counts are
// never persisted; they are cache-only and revalidated from the server.
type blob struct {
	Origin    string            `json:"origin"`
	Reactions map[string]string `json:"reactions"`
}

// SessionMarker is the distinct durable key by which processes propagate
// session transitions to each other.
type SessionMarker struct {
	Origin string `json:"origin"`
	Active bool   `json:"active"`
	User   string `json:"user,omitempty"`
	Token  string `json:"token,omitempty"`
}

// Adapter mirrors user-owned reaction state out to the durable store and back
// in from other processes sharing the same data directory.
type Adapter struct {
	dir    string
	origin string
	store  *store.Store

	watch *watchState
}

// New prepares the data directory and returns an adapter with a fresh origin
// id. The origin id tags this process's writes so its watcher can tell them
// apart from another process's.
func New(dir string, st *store.Store) (*Adapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Adapter{
		dir:    dir,
		origin: uuid.NewString(),
		store:  st,
		watch:  newWatchState(),
	}, nil
}

func (a *Adapter) reactionsPath() string { return filepath.Join(a.dir, reactionsFileName) }
func (a *Adapter) sessionPath() string   { return filepath.Join(a.dir, sessionFileName) }

// Save writes the user-owned reaction set as a single durable blob. Only
// entries with a present reaction belong here; the caller passes the
// store.UserOwned snapshot.
func (a *Adapter) Save(owned map[string]string) error {
	if owned == nil {
		owned = map[string]string{}
	}
	return writeJSONAtomic(a.reactionsPath(), blob{Origin: a.origin, Reactions: owned})
}

// Load reads the durable blob, returning an empty map when none exists.
func (a *Adapter) Load() (map[string]string, error) {
	var b blob
	ok, err := readJSON(a.reactionsPath(), &b)
	if err != nil {
		return nil, fmt.Errorf("read reaction blob: %w", err)
	}
	if !ok || b.Reactions == nil {
		return map[string]string{}, nil
	}
	return b.Reactions, nil
}

// Erase removes the durable blob. Missing files are fine; logout on a fresh
// profile has nothing to erase.
func (a *Adapter) Erase() error {
	if err := os.Remove(a.reactionsPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("erase reaction blob: %w", err)
	}
	return nil
}

// SaveSession publishes a session transition for other processes. The marker
// is stamped with this adapter's origin id.
func (a *Adapter) SaveSession(m SessionMarker) error {
	m.Origin = a.origin
	return writeJSONAtomic(a.sessionPath(), m)
}

func readJSON(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return true, err
	}
	return true, nil
}

func writeJSONAtomic(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
