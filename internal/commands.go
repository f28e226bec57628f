package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/mcpserver"
)

// Command runs one library operation outside the HTTP server and writes its
// result as JSON to out. Logs go to stderr so out stays machine readable.
type Command func(ctx context.Context, lib *library, out io.Writer) error

// Exec opens the configured library and runs cmd against it.
func Exec(ctx context.Context, cfg *Config, out io.Writer, cmd Command) error {
	logger := newLogger(cfg, os.Stderr)
	lib, err := openLibrary(cfg, logger)
	if err != nil {
		return err
	}
	defer lib.Close()
	return cmd(ctx, lib, out)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ImportFile imports the export at path.
func ImportFile(path string) Command {
	return func(ctx context.Context, lib *library, out io.Writer) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: read %s: %w", apperr.ErrUnreadableUpload, path, err)
		}
		sum, err := lib.svc.Import(ctx, raw)
		if err != nil {
			return err
		}
		return printJSON(out, sum)
	}
}

// RepairFile re-files stored bookmarks into the folders of the export at path.
func RepairFile(path string) Command {
	return func(ctx context.Context, lib *library, out io.Writer) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: read %s: %w", apperr.ErrUnreadableUpload, path, err)
		}
		report, err := lib.svc.Repair(ctx, raw)
		if err != nil {
			return err
		}
		return printJSON(out, report)
	}
}

// Dedupe merges duplicate folders.
func Dedupe(ctx context.Context, lib *library, out io.Writer) error {
	merged, err := lib.svc.Dedupe(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, map[string]int{"merged": merged})
}

// Report prints the orphan report.
func Report(ctx context.Context, lib *library, out io.Writer) error {
	report, err := lib.svc.Report(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, report)
}

// ServeMCP serves the MCP tools over stdin/stdout until the client hangs up.
func ServeMCP(_ context.Context, lib *library, _ io.Writer) error {
	return mcpserver.New(lib.svc).ServeStdio()
}
