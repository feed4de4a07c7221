package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/bvale/kudos/internal/session"
)

// Resync pulls the authenticated user's full reaction list and folds it into
// the cache, preserving any counts already known per item. The merged
// user-owned set is persisted, then every merged item is notified. Re-entrant
// calls while a resync is running return immediately.
func (e *Engine) Resync(ctx context.Context) error {
	e.mu.Lock()
	if e.resyncing {
		e.mu.Unlock()
		return nil
	}
	e.resyncing = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.resyncing = false
		e.mu.Unlock()
	}()

	list, err := e.gw.FetchUserReactions(ctx)
	if err != nil {
		e.noteError(err)
		return fmt.Errorf("fetch user reactions: %w", err)
	}

	touched := make([]string, 0, len(list))
	for _, ur := range list {
		e.store.MergeUserReaction(ur.ItemID, ur.ReactionType)
		touched = append(touched, ur.ItemID)
	}
	e.persistOwned()
	for _, itemID := range touched {
		e.store.Notify(itemID)
	}
	return nil
}

// BindSession attaches the engine to the session lifecycle: a new session
// triggers a background resync (any anonymous cache is overwritten entry by
// entry, not cleared first), session end clears the cache and erases the
// durable blob, and Unauthorized API responses feed back into session end.
func (e *Engine) BindSession(sig *session.Signals) {
	e.onUnauthorized = sig.End
	sig.OnEstablished(func(user, token string) {
		go func() {
			if err := e.Resync(context.Background()); err != nil {
				log.Printf("post-login resync failed: %v", err)
			}
		}()
	})
	sig.OnEnded(e.clearAll)
}

// clearAll is the logout path: every cached entry is dropped and its
// subscribers told, then the durable blob goes away.
func (e *Engine) clearAll() {
	for _, itemID := range e.store.Clear() {
		e.store.Notify(itemID)
	}
	if e.persist == nil {
		return
	}
	if err := e.persist.Erase(); err != nil {
		log.Printf("erase durable reactions failed: %v", err)
	}
}
