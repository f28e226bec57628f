package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	pkgconfig "github.com/starford/raido/pkg/config"
)

func loadConfig(cmd *cli.Command, optional bool) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	load := pkgconfig.Load[internal.Config]
	if optional {
		load = pkgconfig.LoadOptional[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// oneShot adapts a library command to a cli action.
func oneShot(build func(cmd *cli.Command) (internal.Command, error)) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd, true)
		if err != nil {
			return err
		}
		run, err := build(cmd)
		if err != nil {
			return err
		}
		return internal.Exec(ctx, cfg, os.Stdout, run)
	}
}

func fileArg(fn func(string) internal.Command) func(*cli.Command) (internal.Command, error) {
	return func(cmd *cli.Command) (internal.Command, error) {
		path := cmd.Args().First()
		if path == "" {
			return nil, fmt.Errorf("missing FILE argument")
		}
		return fn(path), nil
	}
}

func fixed(c internal.Command) func(*cli.Command) (internal.Command, error) {
	return func(*cli.Command) (internal.Command, error) { return c, nil }
}

func main() {
	cmd := &cli.Command{
		Name:   "raido",
		Usage:  "Bookmark library with browser export import, folder reconciliation, and full-text search",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:      "import",
				Usage:     "Import a browser bookmark export or a JSON record list",
				ArgsUsage: "FILE",
				Action:    oneShot(fileArg(internal.ImportFile)),
			},
			{
				Name:   "dedupe",
				Usage:  "Merge folders with the same name",
				Action: oneShot(fixed(internal.Dedupe)),
			},
			{
				Name:      "repair",
				Usage:     "Move stored bookmarks into the folders of a browser export",
				ArgsUsage: "FILE",
				Action:    oneShot(fileArg(internal.RepairFile)),
			},
			{
				Name:   "report",
				Usage:  "Report bookmarks without a valid folder",
				Action: oneShot(fixed(internal.Report)),
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: oneShot(fixed(internal.ServeMCP)),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
