package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/snippet-share/internal/config"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository/mongodb"
	"github.com/sakif/snippet-share/internal/server"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Registered users",
	}
	users.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every registered user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return opts.withStores(cmd, func(ctx context.Context, s *server.Stores) error {
				list, err := s.Users.ListUsers(ctx)
				if err != nil {
					return err
				}
				return printUsers(cmd.OutOrStdout(), list, cfg.IsAdmin)
			})
		},
	})
	return users
}

func newSnippetsCmd(opts *rootOptions) *cobra.Command {
	var creator string

	snippets := &cobra.Command{
		Use:   "snippets",
		Short: "Stored snippets",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List snippets, optionally only those of one creator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withStores(cmd, func(ctx context.Context, s *server.Stores) error {
				all, err := s.Snippets.ListSnippets(ctx)
				if err != nil {
					return err
				}
				return printSnippets(cmd.OutOrStdout(), filterByCreator(all, creator))
			})
		},
	}
	list.Flags().StringVar(&creator, "creator", "", "only show snippets by this username")
	snippets.AddCommand(list)
	return snippets
}

func newIndexesCmd(opts *rootOptions) *cobra.Command {
	indexes := &cobra.Command{
		Use:   "indexes",
		Short: "Store indexes",
	}
	indexes.AddCommand(&cobra.Command{
		Use:   "ensure",
		Short: "Create the unique username index (MongoDB)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store != config.StoreMongoDB {
				return errors.New("indexes ensure only applies to SNIPPETS_STORE=mongodb; the sqlite schema carries its constraints")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			db, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.EnsureIndexes(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexes ensured on %s\n", cfg.MongoDatabase)
			return nil
		},
	})
	return indexes
}

func filterByCreator(snippets []model.Snippet, creator string) []model.Snippet {
	if creator == "" {
		return snippets
	}
	out := make([]model.Snippet, 0, len(snippets))
	for _, s := range snippets {
		if s.Creator == creator {
			out = append(out, s)
		}
	}
	return out
}

func printUsers(w io.Writer, users []model.User, isAdmin func(string) bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tADMIN\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", u.ID, u.Username, isAdmin(u.Username), u.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func printSnippets(w io.Writer, snippets []model.Snippet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCREATOR\tUPDATED")
	for _, s := range snippets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Title, s.Creator, s.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
