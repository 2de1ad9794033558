package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"booky/internal/app"
	"booky/internal/bootstrap"
	"booky/internal/config"
	apphttp "booky/internal/http"
	"booky/internal/readinglist"
	"booky/internal/shell"
)

var (
	configPath string
	dbPath     string
	driver     string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "booky",
		Short:        "Search Open Library and keep a list of the books you read",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $BOOKY_CONFIG)")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database path")
	root.PersistentFlags().StringVar(&driver, "driver", "", "storage driver: sqlite, postgres or memory")

	root.AddCommand(searchCmd())
	root.AddCommand(showCmd())
	root.AddCommand(readCmd())
	root.AddCommand(shellCmd())
	root.AddCommand(serveCmd())
	return root
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if driver != "" {
		cfg.Storage.Driver = driver
	}
	if dbPath != "" {
		cfg.Storage.SQLitePath = dbPath
	}
	return cfg, cfg.Validate()
}

// run opens the components for the duration of fn. The context is
// cancelled on SIGINT or SIGTERM.
func run(cmd *cobra.Command, fn func(ctx context.Context, c *bootstrap.Components) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c)
}

func newSession(c *bootstrap.Components, env app.Environment) *app.Session {
	return app.NewSession(c.Catalog, c.ReadList, app.Options{
		AppName:     c.Config.AppName,
		Environment: env,
	})
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Look up books by title, author or subject",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				out := cmd.OutOrStdout()
				results := c.Catalog.Search(ctx, strings.Join(args, " "))
				shell.RenderResults(out, app.State{Results: results})
				for _, b := range results {
					fmt.Fprintf(out, "    %s  %s\n", b.Key, b.Title)
				}
				return nil
			})
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [key]",
		Short: "Show the details of a work, e.g. /works/OL45804W",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				sess := newSession(c, nil)
				defer sess.Shutdown()

				st := sess.Lookup(ctx, normalizeKey(args[0]))
				if st.Detail == nil {
					return fmt.Errorf("no details for %s", st.SelectedKey)
				}
				var rated *readinglist.Entry
				if e, ok := sess.Rated(); ok {
					rated = &e
				}
				shell.RenderDetail(cmd.OutOrStdout(), st, rated)
				return nil
			})
		},
	}
}

func readCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Manage the list of books you read",
	}
	cmd.AddCommand(readListCmd(), readAddCmd(), readRemoveCmd(), readStatsCmd(), readExportCmd())
	return cmd
}

func readListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the books you read",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				entries := c.ReadList.All()
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No books yet. Use 'booky read add' to rate one.")
					return nil
				}
				shell.RenderReadList(cmd.OutOrStdout(), entries)
				return nil
			})
		},
	}
}

func readAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [key] [1-5]",
		Short: "Rate a work and add it to the read list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stars, err := strconv.Atoi(args[1])
			if err != nil {
				return app.ErrInvalidRating
			}
			return run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				sess := newSession(c, nil)
				defer sess.Shutdown()

				sess.Lookup(ctx, normalizeKey(args[0]))
				entry, err := sess.Rate(ctx, stars)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d ⭐)\n", entry.Title, entry.UserRating)
				return nil
			})
		},
	}
}

func readRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [n|key]",
		Aliases: []string{"remove"},
		Short:   "Remove an entry by position or key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				sess := newSession(c, nil)
				if n, err := strconv.Atoi(args[0]); err == nil {
					entry, err := sess.RemoveAt(ctx, n)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", entry.Title)
					return nil
				}
				key := normalizeKey(args[0])
				if err := sess.Remove(ctx, key); err != nil {
					return fmt.Errorf("remove %s: %w", key, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", key)
				return nil
			})
		},
	}
}

func readStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show averages over the read list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				shell.RenderSummary(cmd.OutOrStdout(), newSession(c, nil).Summary())
				return nil
			})
		},
	}
}

func readExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the read list as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				return c.ReadList.Export(cmd.OutOrStdout())
			})
		},
	}
}

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				out := cmd.OutOrStdout()
				term := shell.NewTerminal(out)
				term.SetTitle(c.Config.AppName)
				return shell.New(newSession(c, term), term, out).Run(ctx, cmd.InOrStdin())
			})
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				if addr == "" {
					addr = c.Config.Addr
				}
				router := apphttp.NewRouter(ctx, apphttp.RouterDeps{
					Catalog:  c.Catalog,
					ReadList: c.ReadList,
					Store:    c.Slots,
					HTTP:     c.Config.HTTP,
				})
				return apphttp.Serve(ctx, addr, router)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// normalizeKey accepts "OL45804W", "works/OL45804W" or "/works/OL45804W".
func normalizeKey(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "/"):
		return s
	case strings.Contains(s, "/"):
		return "/" + s
	default:
		return "/works/" + s
	}
}
