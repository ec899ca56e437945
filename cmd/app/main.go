package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/filesearch"
	"github.com/starford/ansuz/internal/notes"
	"github.com/starford/ansuz/internal/projects"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if v := cmd.String("base-url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := cmd.String("token"); v != "" {
		cfg.API.Token = v
	}
	return cfg, nil
}

func buildClients(cmd *cli.Command) (*internal.Clients, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return internal.NewClients(cfg, internal.NewLogger(cfg)), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func notesCommand() *cli.Command {
	return &cli.Command{
		Name:  "notes",
		Usage: "Manage notes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List notes",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					items, total, err := clients.Notes.List(ctx, 0, 0)
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "total: %d\n", total)
					return printJSON(items)
				},
			},
			{
				Name:  "create",
				Usage: "Create a note",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "content", Required: true},
					&cli.StringSliceFlag{Name: "tag"},
					&cli.StringFlag{Name: "project"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					note, err := clients.Notes.Create(ctx, notes.Draft{
						Title:     cmd.String("title"),
						Content:   cmd.String("content"),
						Tags:      cmd.StringSlice("tag"),
						ProjectID: cmd.String("project"),
					})
					if err != nil {
						return err
					}
					return printJSON(note)
				},
			},
			{
				Name:      "get",
				Usage:     "Show one note",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					note, err := clients.Notes.Get(ctx, cmd.Args().First())
					if err != nil {
						return err
					}
					return printJSON(note)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a note",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					return clients.Notes.Delete(ctx, cmd.Args().First())
				},
			},
		},
	}
}

func projectsCommand() *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "Manage projects",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List projects",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					items, total, err := clients.Projects.List(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "total: %d\n", total)
					return printJSON(items)
				},
			},
			{
				Name:  "create",
				Usage: "Create a project",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "color"},
					&cli.StringFlag{Name: "icon"},
					&cli.StringFlag{Name: "parent", Usage: "Parent project id"},
					&cli.StringSliceFlag{Name: "tag"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					project, err := clients.Projects.Create(ctx, projects.Draft{
						Name:            cmd.String("name"),
						Description:     cmd.String("description"),
						Color:           cmd.String("color"),
						Icon:            cmd.String("icon"),
						ParentProjectID: cmd.String("parent"),
						Tags:            cmd.StringSlice("tag"),
					})
					if err != nil {
						return err
					}
					return printJSON(project)
				},
			},
			{
				Name:      "get",
				Usage:     "Show one project",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					project, err := clients.Projects.Get(ctx, cmd.Args().First())
					if err != nil {
						return err
					}
					return printJSON(project)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a project",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					return clients.Projects.Delete(ctx, cmd.Args().First())
				},
			},
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the remote file index",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "type", Usage: "Restrict to file types"},
			&cli.StringSliceFlag{Name: "dir", Usage: "Restrict to directories"},
			&cli.IntFlag{Name: "max", Usage: "Maximum number of results"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clients, err := buildClients(cmd)
			if err != nil {
				return err
			}
			results, err := clients.FileSearch.Search(ctx, filesearch.SearchQuery{
				Query:       strings.Join(cmd.Args().Slice(), " "),
				FileTypes:   cmd.StringSlice("type"),
				Directories: cmd.StringSlice("dir"),
				MaxResults:  int(cmd.Int("max")),
			})
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}
}

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Mutate the remote index",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Index a path",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					return clients.FileSearch.AddToIndex(ctx, cmd.Args().First(), cmd.Bool("recursive"))
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a path from the index",
				ArgsUsage: "<path>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					return clients.FileSearch.RemoveFromIndex(ctx, cmd.Args().First())
				},
			},
		},
	}
}

func dirsCommand() *cli.Command {
	return &cli.Command{
		Name:  "dirs",
		Usage: "Manage watched directories",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List watched directories",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					dirs, err := clients.FileSearch.ListWatchedDirectories(ctx)
					if err != nil {
						return err
					}
					return printJSON(dirs)
				},
			},
			{
				Name:      "add",
				Usage:     "Watch a directory",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}},
					&cli.StringSliceFlag{Name: "ext", Usage: "Restrict to file extensions"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					return clients.FileSearch.AddWatchedDirectory(ctx, filesearch.DirectoryConfig{
						Path:                  cmd.Args().First(),
						IncludeSubdirectories: cmd.Bool("recursive"),
						FileExtensions:        cmd.StringSlice("ext"),
					})
				},
			},
			{
				Name:      "remove",
				Usage:     "Stop watching a directory",
				ArgsUsage: "<path>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					clients, err := buildClients(cmd)
					if err != nil {
						return err
					}
					return clients.FileSearch.RemoveWatchedDirectory(ctx, cmd.Args().First())
				},
			},
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show file-search index statistics",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clients, err := buildClients(cmd)
			if err != nil {
				return err
			}
			stats, err := clients.FileSearch.Statistics(ctx)
			if err != nil {
				return err
			}
			return printJSON(stats)
		},
	}
}

func reindexCommand() *cli.Command {
	return &cli.Command{
		Name:  "reindex",
		Usage: "Rebuild the remote index and show refreshed counters",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clients, err := buildClients(cmd)
			if err != nil {
				return err
			}
			screen := filesearch.NewScreen(clients.FileSearch)
			jobID, err := screen.ReindexAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "reindex job: %s\n", jobID)
			stats, _ := screen.Stats.Value()
			return printJSON(stats)
		},
	}
}

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:      "chat",
		Usage:     "Send a chat message",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "session", Usage: "Existing session id"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clients, err := buildClients(cmd)
			if err != nil {
				return err
			}
			reply, err := clients.Chat.Send(ctx, cmd.String("session"), strings.Join(cmd.Args().Slice(), " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "session: %s\n", reply.SessionID)
			fmt.Println(reply.Message.Content)
			return nil
		},
	}
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "List calendar events",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clients, err := buildClients(cmd)
			if err != nil {
				return err
			}
			events, err := clients.Calendar.List(ctx, time.Time{}, time.Time{})
			if err != nil {
				return err
			}
			return printJSON(events)
		},
	}
}

func translateCommand() *cli.Command {
	return &cli.Command{
		Name:      "translate",
		Usage:     "Translate pseudocode read from a file or stdin",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lang", Value: "python", Usage: "Target language"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clients, err := buildClients(cmd)
			if err != nil {
				return err
			}
			var data []byte
			if file := cmd.Args().First(); file != "" {
				data, err = os.ReadFile(file)
			} else {
				data, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
			}
			res, err := clients.Translator.Translate(ctx, string(data), cmd.String("lang"))
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
			fmt.Println(res.Code)
			return nil
		},
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Push local file changes to the remote index (runs until interrupted)",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return internal.RunSync(ctx, internal.WithConfig(cfg))
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve MCP tools over stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return internal.RunMCP(ctx, internal.WithConfig(cfg))
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Client for the Ansuz productivity backend: notes, projects, calendar, file search, and AI chat",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("ANSUZ_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Backend base URL (overrides config)",
				Sources: cli.EnvVars("ANSUZ_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token (overrides config)",
				Sources: cli.EnvVars("ANSUZ_TOKEN"),
			},
		},
		Commands: []*cli.Command{
			notesCommand(),
			projectsCommand(),
			eventsCommand(),
			searchCommand(),
			indexCommand(),
			dirsCommand(),
			statsCommand(),
			reindexCommand(),
			chatCommand(),
			translateCommand(),
			syncCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
