package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/snippet-share/internal/config"
	"github.com/sakif/snippet-share/internal/server"
)

type rootOptions struct {
	store   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "snippetctl",
		Short:         "Inspect and maintain the snippet store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.store, "store", "", "override SNIPPETS_STORE (mongodb|sqlite)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall command timeout")

	root.AddCommand(
		newUsersCmd(opts),
		newSnippetsCmd(opts),
		newIndexesCmd(opts),
	)
	return root
}

// loadConfig reads the environment and applies flag overrides.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if o.store != "" {
		cfg.Store = o.store
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	// The CLI never serves sessions.
	cfg.SessionStore = config.SessionsMemory
	return cfg, nil
}

// withStores opens the configured stores for the duration of fn.
func (o *rootOptions) withStores(cmd *cobra.Command, fn func(context.Context, *server.Stores) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	stores, err := server.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stores.Close(); cerr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: closing stores:", cerr)
		}
	}()

	return fn(ctx, stores)
}
