package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bvale/kudos/internal/api"
	"github.com/bvale/kudos/internal/store"
)

const defaultFreshFor = time.Minute

// Persister is the slice of the persistence adapter the engine drives.
// Implemented by *persist.Adapter; faked in tests.
type Persister interface {
	Save(owned map[string]string) error
	Erase() error
}

// Engine is the sync coordinator: it owns every mutation of the reaction
// store, applies optimistic writes, reconciles with the server, and runs
// bulk resynchronization.
type Engine struct {
	gw       api.Gateway
	store    *store.Store
	persist  Persister // may be nil; persistence is an optimization
	freshFor time.Duration

	mu        sync.Mutex
	writes    map[string]*itemWrite
	resyncing bool

	onUnauthorized func()
}

// New builds an engine over the given gateway and store. freshFor bounds how
// long a cached entry satisfies reads without a server round trip; zero uses
// the default of one minute.
func New(gw api.Gateway, st *store.Store, p Persister, freshFor time.Duration) *Engine {
	if freshFor <= 0 {
		freshFor = defaultFreshFor
	}
	return &Engine{
		gw:       gw,
		store:    st,
		persist:  p,
		freshFor: freshFor,
		writes:   make(map[string]*itemWrite),
	}
}

// Reaction returns the best available state for an item. A fresh cached entry
// is returned as is; otherwise the server is consulted and the cache updated.
// Reads never fail: on any error the last cached entry (or the empty state)
// comes back instead.
func (e *Engine) Reaction(ctx context.Context, itemID string) store.Reaction {
	e.mu.Lock()
	_, writing := e.writes[itemID]
	e.mu.Unlock()

	if r, ok := e.store.Get(itemID); ok {
		// Mid-write the cache holds the optimistic guess; refetching now
		// would clobber it with pre-write server state.
		if writing {
			return r
		}
		if !r.UpdatedAt.IsZero() && time.Since(r.UpdatedAt) < e.freshFor {
			return r
		}
	} else if writing {
		return store.Reaction{ItemID: itemID}
	}

	resp, err := e.gw.FetchItem(ctx, itemID)
	if err != nil {
		e.noteError(err)
		if r, ok := e.store.Get(itemID); ok {
			return r
		}
		return store.Reaction{ItemID: itemID}
	}

	r := fromAPI(itemID, resp)
	e.store.Put(r)
	e.store.Notify(itemID)
	return r
}

// UserReaction returns the user's cached reaction for an item, "" for none.
func (e *Engine) UserReaction(itemID string) string {
	r, _ := e.store.Get(itemID)
	return r.UserReaction
}

// Counts returns the cached per-kind counts for an item.
func (e *Engine) Counts(itemID string) map[string]int {
	r, ok := e.store.Get(itemID)
	if !ok || r.Counts == nil {
		return map[string]int{}
	}
	return r.Counts
}

// Subscribe registers a callback for an item's state changes. The current
// cached state, if any, is replayed synchronously before Subscribe returns.
func (e *Engine) Subscribe(itemID string, fn func(store.Reaction)) func() {
	return e.store.Subscribe(itemID, fn)
}

// noteError routes Unauthorized responses into the session-end path; every
// other error is the caller's business.
func (e *Engine) noteError(err error) {
	if e.onUnauthorized != nil && errors.Is(err, api.ErrUnauthorized) {
		go e.onUnauthorized()
	}
}

func fromAPI(itemID string, resp api.ItemReactions) store.Reaction {
	counts := resp.Reactions
	if counts == nil {
		counts = map[string]int{}
	}
	return store.Reaction{
		ItemID:       itemID,
		UserReaction: resp.UserReaction,
		Counts:       counts,
		UpdatedAt:    time.Now(),
	}
}
