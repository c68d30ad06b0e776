package app

import (
	"context"
	"fmt"

	"github.com/kjartanf/syna/internal/api"
	"github.com/kjartanf/syna/internal/config"
	"github.com/kjartanf/syna/internal/session"
	"github.com/kjartanf/syna/internal/ui"
)

// Options configure the syna application.
type Options struct {
	ConfigPath string
	APIURL     string // overrides config and environment when set
}

// Run boots the syna TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}

	tokens, err := api.NewTokenStore(cfg.TokenPath)
	if err != nil {
		return fmt.Errorf("init token store: %w", err)
	}
	if err := tokens.Load(); err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL, tokens)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	sess := session.New(client)
	sess.Watch(ctx)
	if err := sess.Init(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	return ui.Run(ui.Options{
		Context: ctx,
		Client:  client,
		Session: sess,
	})
}
