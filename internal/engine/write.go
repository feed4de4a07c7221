package engine

import (
	"context"
	"log"
	"time"

	"github.com/bvale/kudos/internal/store"
)

// itemWrite is the per-item pending-write guard: present in Engine.writes for
// exactly the span from optimistic apply to server settle, plus any queued
// follow-up still draining.
type itemWrite struct {
	queued *queuedWrite

	// Last user reaction the server confirmed while this guard was held.
	// Lets the drain skip a queued request the server already agrees with.
	confirmed    string
	hasConfirmed bool
}

// queuedWrite is the depth-1 queue slot: the newest intent issued while a
// write was in flight. A newer request replaces it; the replaced caller
// resolves with the current local state.
type queuedWrite struct {
	ctx  context.Context
	kind string
	done chan writeResult
}

type writeResult struct {
	state store.Reaction
	err   error
}

// UpdateReaction sets (or, with an empty kind, clears) the user's reaction on
// an item. The optimistic state is visible to subscribers before the network
// round trip; on success the server's authoritative state replaces it, on
// failure the cache rolls back to server truth and the write error is
// returned. At most one write per item is in flight; a request issued
// meanwhile waits in the item's single queue slot.
func (e *Engine) UpdateReaction(ctx context.Context, itemID, kind string) (store.Reaction, error) {
	e.mu.Lock()
	if w, ok := e.writes[itemID]; ok {
		q := &queuedWrite{ctx: ctx, kind: kind, done: make(chan writeResult, 1)}
		superseded := w.queued
		w.queued = q
		e.mu.Unlock()

		st := e.applyOptimistic(itemID, kind)
		if superseded != nil {
			superseded.done <- writeResult{state: st}
		}
		res := <-q.done
		return res.state, res.err
	}
	e.writes[itemID] = &itemWrite{}
	e.mu.Unlock()

	e.applyOptimistic(itemID, kind)
	res := e.roundTrip(ctx, itemID, kind)
	go e.drainQueue(itemID)
	return res.state, res.err
}

// applyOptimistic moves the cached state to the new intent before the server
// answers: previous kind decremented (floored at zero), new kind incremented,
// user reaction set. Subscribers see it immediately.
func (e *Engine) applyOptimistic(itemID, kind string) store.Reaction {
	cur, ok := e.store.Get(itemID)
	if !ok {
		cur = store.Reaction{ItemID: itemID}
	}
	next := adjust(cur, kind)
	next.UpdatedAt = time.Now()
	e.store.Put(next)
	e.store.Notify(itemID)
	return next
}

// adjust returns a copy of r with the user's reaction moved to kind and the
// counts shifted accordingly. Counts for kinds it does not touch are
// preserved; nothing ever drops below zero.
func adjust(r store.Reaction, kind string) store.Reaction {
	next := r.Clone()
	if next.Counts == nil {
		next.Counts = map[string]int{}
	}
	if prev := next.UserReaction; prev != "" && next.Counts[prev] > 0 {
		next.Counts[prev]--
	}
	if kind != "" {
		next.Counts[kind]++
	}
	next.UserReaction = kind
	return next
}

// roundTrip performs one server write and reconciles the cache with the
// outcome. On failure it recovers the true state with a fetch (falling back
// to the empty state) so the UI never keeps showing an unconfirmed optimistic
// value, then hands the original write error back.
func (e *Engine) roundTrip(ctx context.Context, itemID, kind string) writeResult {
	resp, err := e.gw.WriteReaction(ctx, itemID, kind)
	if err == nil {
		auth := fromAPI(itemID, resp)
		e.setConfirmed(itemID, auth.UserReaction)
		final := e.reconcile(itemID, auth)
		e.persistOwned()
		return writeResult{state: final}
	}
	e.noteError(err)

	truth := store.Reaction{ItemID: itemID, Counts: map[string]int{}}
	if rec, ferr := e.gw.FetchItem(ctx, itemID); ferr == nil {
		truth = fromAPI(itemID, rec)
	}
	e.setConfirmed(itemID, truth.UserReaction)
	final := e.reconcile(itemID, truth)
	return writeResult{state: final, err: err}
}

// reconcile replaces the cached entry with server truth. If a newer intent is
// queued for the item, its optimistic adjustment is re-applied on top so the
// display does not flicker back to a value the user already moved past.
func (e *Engine) reconcile(itemID string, truth store.Reaction) store.Reaction {
	e.mu.Lock()
	queuedKind := ""
	hasQueued := false
	if w := e.writes[itemID]; w != nil && w.queued != nil {
		queuedKind = w.queued.kind
		hasQueued = true
	}
	e.mu.Unlock()

	next := truth
	if hasQueued && truth.UserReaction != queuedKind {
		at := truth.UpdatedAt
		next = adjust(truth, queuedKind)
		next.UpdatedAt = at
	}
	e.store.Put(next)
	e.store.Notify(itemID)
	return next
}

func (e *Engine) setConfirmed(itemID, kind string) {
	e.mu.Lock()
	if w := e.writes[itemID]; w != nil {
		w.confirmed = kind
		w.hasConfirmed = true
	}
	e.mu.Unlock()
}

// drainQueue serves the item's queued request, if any, then releases the
// guard. A queued request whose kind the server already confirmed resolves
// without a second network write, which keeps a rapid double-click down to
// one request.
func (e *Engine) drainQueue(itemID string) {
	for {
		e.mu.Lock()
		w := e.writes[itemID]
		if w == nil {
			e.mu.Unlock()
			return
		}
		q := w.queued
		if q == nil {
			delete(e.writes, itemID)
			e.mu.Unlock()
			return
		}
		w.queued = nil
		confirmed, hasConfirmed := w.confirmed, w.hasConfirmed
		e.mu.Unlock()

		if hasConfirmed && confirmed == q.kind {
			cur, ok := e.store.Get(itemID)
			if !ok {
				cur = store.Reaction{ItemID: itemID}
			}
			q.done <- writeResult{state: cur}
			continue
		}
		q.done <- e.roundTrip(q.ctx, itemID, q.kind)
	}
}

func (e *Engine) persistOwned() {
	if e.persist == nil {
		return
	}
	if err := e.persist.Save(e.store.UserOwned()); err != nil {
		log.Printf("persist reactions failed: %v", err)
	}
}
