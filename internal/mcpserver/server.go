// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido library tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/libraryservice"
	"github.com/starford/raido/internal/models"
)

const importFormatsURI = "raido://import-formats"

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *libraryservice.Service
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *libraryservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("import_bookmarks",
		mcp.WithDescription("Import a browser bookmark export (Netscape HTML) or a JSON array of "+
			"{url, title} records. Folders are rebuilt and reused; URLs already stored are skipped. "+
			"See the get_import_formats tool or the "+importFormatsURI+" resource."),
		mcp.WithString("content", mcp.Required(),
			mcp.Description("File content, or a base64 data URI such as data:text/html;base64,...")),
	), s.importBookmarks)

	s.mcp.AddTool(mcp.NewTool("repair_import",
		mcp.WithDescription("Move already stored bookmarks into the folders of a browser export, "+
			"matching by URL and then by title. Nothing new is imported."),
		mcp.WithString("content", mcp.Required(),
			mcp.Description("Export file content, or a base64 data URI")),
	), s.repairImport)

	s.mcp.AddTool(mcp.NewTool("dedupe_folders",
		mcp.WithDescription("Merge folders whose names match case-insensitively, keeping the oldest. "+
			"Bookmarks and subfolders move to the survivor."),
	), s.dedupeFolders)

	s.mcp.AddTool(mcp.NewTool("search_bookmarks",
		mcp.WithDescription("Full-text search through bookmark titles, URLs, tags and folder names."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchBookmarks)

	s.mcp.AddTool(mcp.NewTool("list_folders",
		mcp.WithDescription("List all folders as an indented tree with their ids."),
	), s.listFolders)

	s.mcp.AddTool(mcp.NewTool("report_orphans",
		mcp.WithDescription("Count bookmarks without a folder or pointing at a deleted folder."),
	), s.reportOrphans)

	s.mcp.AddTool(mcp.NewTool("get_import_formats",
		mcp.WithDescription("Returns the accepted import formats. Call this before import_bookmarks."),
	), s.getImportFormats)

	s.mcp.AddResource(
		mcp.NewResource(importFormatsURI, "Import Formats",
			mcp.WithResourceDescription("Payload formats accepted by import_bookmarks."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readImportFormatsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func (s *Server) importBookmarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := decodePayload(content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sum, err := s.svc.Import(ctx, raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(sum), nil
}

func (s *Server) repairImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := decodePayload(content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.svc.Repair(ctx, raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(report), nil
}

func (s *Server) dedupeFolders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	merged, err := s.svc.Dedupe(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("merged: %d", merged)), nil
}

func (s *Server) searchBookmarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results), nil
}

func (s *Server) listFolders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folders, err := s.svc.Folders(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(folders) == 0 {
		return mcp.NewToolResultText("no folders"), nil
	}
	return mcp.NewToolResultText(folderTree(folders)), nil
}

// folderTree renders folders as an indented outline, children under their
// parent in display order. Folders whose parent is missing, or that sit in a
// stored cycle, are listed at the top level.
func folderTree(folders []models.Folder) string {
	ids := make(map[string]bool, len(folders))
	for _, f := range folders {
		ids[f.ID] = true
	}
	children := make(map[string][]models.Folder)
	for _, f := range folders {
		parent := f.ParentID
		if !ids[parent] {
			parent = ""
		}
		children[parent] = append(children[parent], f)
	}

	var sb strings.Builder
	printed := make(map[string]bool, len(folders))
	var walk func(parent string, depth int)
	walk = func(parent string, depth int) {
		for _, f := range children[parent] {
			if printed[f.ID] {
				continue
			}
			printed[f.ID] = true
			fmt.Fprintf(&sb, "%s- %s (%s)\n", strings.Repeat("  ", depth), f.Name, f.ID)
			walk(f.ID, depth+1)
		}
	}
	walk("", 0)
	for _, f := range folders {
		if !printed[f.ID] {
			walk(f.ParentID, 0)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (s *Server) reportOrphans(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.svc.Report(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(report), nil
}

func (s *Server) getImportFormats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ImportFormatContract), nil
}

func (s *Server) readImportFormatsResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      importFormatsURI,
			MIMEType: "text/markdown",
			Text:     ImportFormatContract,
		},
	}, nil
}
