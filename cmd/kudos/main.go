package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bvale/kudos/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override kudos config path (optional)")
	prefsPath := flag.String("prefs", "", "override kudos prefs path (optional)")
	user := flag.String("user", "", "sign in as this user at startup (requires -token)")
	token := flag.String("token", "", "session token for -user")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Items:      flag.Args(),
		User:       *user,
		Token:      *token,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "kudos: %v\n", err)
		return 1
	}
	return 0
}
