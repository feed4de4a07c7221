package app

import (
	"context"
	"fmt"
	"log"

	"github.com/bvale/kudos/internal/api"
	"github.com/bvale/kudos/internal/config"
	"github.com/bvale/kudos/internal/engine"
	"github.com/bvale/kudos/internal/persist"
	"github.com/bvale/kudos/internal/prefs"
	"github.com/bvale/kudos/internal/session"
	"github.com/bvale/kudos/internal/store"
	"github.com/bvale/kudos/internal/ui"
)

// Options configure the kudos application.
type Options struct {
	ConfigPath string
	PrefsPath  string   // empty uses default ~/.config/kudos/prefs.toml
	Items      []string // item ids to watch; falls back to config, then prefs
	User       string   // with Token, establishes a session at startup
	Token      string
}

// Run wires the engine together and boots the TUI until the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := api.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	st := store.New()
	adapter, err := persist.New(cfg.DataDir, st)
	if err != nil {
		return fmt.Errorf("init durable storage: %w", err)
	}

	sig := session.New()
	eng := engine.New(client, st, adapter, cfg.FreshFor)

	// Token wiring registers before the engine binds, so the post-login
	// resync already runs authenticated.
	sig.OnEstablished(func(user, token string) { client.SetToken(token) })
	sig.OnEnded(func() { client.SetToken("") })
	eng.BindSession(sig)

	// Mirror local session transitions out to other kudos processes, and
	// replay foreign ones into the local signals. Idempotent Establish/End
	// keeps the mirroring from echoing forever.
	sig.OnEstablished(func(user, token string) {
		if err := adapter.SaveSession(persist.SessionMarker{Active: true, User: user, Token: token}); err != nil {
			log.Printf("publish session marker failed: %v", err)
		}
	})
	sig.OnEnded(func() {
		if err := adapter.SaveSession(persist.SessionMarker{Active: false}); err != nil {
			log.Printf("publish session marker failed: %v", err)
		}
	})
	adapter.OnSessionChange(func(m persist.SessionMarker) {
		if m.Active {
			sig.Establish(m.User, m.Token)
		} else {
			sig.End()
		}
	})

	// Warm the cache from the durable blob before anything renders. Counts
	// are not stored, so these entries revalidate on first read.
	if owned, err := adapter.Load(); err != nil {
		log.Printf("load durable reactions failed: %v", err)
	} else {
		for itemID, kind := range owned {
			st.MergeUserReaction(itemID, kind)
		}
	}

	if err := adapter.Watch(ctx); err != nil {
		return fmt.Errorf("watch data dir: %w", err)
	}

	items := opts.Items
	if len(items) == 0 {
		items = cfg.Items
	}
	if len(items) == 0 {
		items = userPrefs.Items
	}
	if len(items) == 0 {
		return fmt.Errorf("no items to watch: pass item ids or set items in config")
	}

	user, token := opts.User, opts.Token
	if user == "" && token == "" {
		user, token = cfg.User, cfg.Token
	}
	if user != "" && token != "" {
		sig.Establish(user, token)
	}

	uiOpts := ui.Options{
		Context:   ctx,
		Engine:    eng,
		Session:   sig,
		Items:     items,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		User:      user,
		Token:     token,
	}
	return ui.Run(uiOpts)
}
