package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/raido/internal/libraryservice"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/testutil"
)

const export = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
	<DT><H3>Work</H3>
	<DL><p>
		<DT><A HREF="https://go.dev" TAGS="lang,go">Go</A>
		<DT><H3>Projects</H3>
		<DL><p>
			<DT><A HREF="https://kubernetes.io">Kubernetes</A>
		</DL><p>
	</DL><p>
	<DT><A HREF="https://example.com">Example</A>
</DL><p>`

func testServer(t *testing.T) *Server {
	t.Helper()
	_, store := testutil.TestStore(t)
	db := testutil.TestDB(t)
	svc := libraryservice.NewService(store,
		libraryservice.WithIndex(db),
		libraryservice.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return New(svc)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "import_bookmarks":
		result, err = srv.importBookmarks(ctx, req)
	case "repair_import":
		result, err = srv.repairImport(ctx, req)
	case "dedupe_folders":
		result, err = srv.dedupeFolders(ctx, req)
	case "search_bookmarks":
		result, err = srv.searchBookmarks(ctx, req)
	case "list_folders":
		result, err = srv.listFolders(ctx, req)
	case "report_orphans":
		result, err = srv.reportOrphans(ctx, req)
	case "get_import_formats":
		result, err = srv.getImportFormats(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestImportBookmarks(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "import_bookmarks", map[string]interface{}{"content": export})
	if r.IsError {
		t.Fatalf("import failed: %s", resultText(r))
	}
	var sum libraryservice.ImportSummary
	if err := json.Unmarshal([]byte(resultText(r)), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Count != 3 {
		t.Errorf("count = %d, want 3", sum.Count)
	}
	if sum.CreatedFolders != 2 {
		t.Errorf("created folders = %d, want 2", sum.CreatedFolders)
	}

	r = callTool(t, srv, "import_bookmarks", map[string]interface{}{"content": export})
	if !r.IsError {
		t.Error("expected error when every bookmark already exists")
	}
}

func TestImportBookmarks_DataURI(t *testing.T) {
	srv := testServer(t)
	payload := `[{"url":"https://a.test","title":"A"},{"url":"https://b.test"}]`
	uri := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(payload))

	r := callTool(t, srv, "import_bookmarks", map[string]interface{}{"content": uri})
	if r.IsError {
		t.Fatalf("import failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"count": 2`) {
		t.Errorf("result = %q, want count 2", resultText(r))
	}
}

func TestImportBookmarks_BadPayload(t *testing.T) {
	srv := testServer(t)
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing content", map[string]interface{}{}},
		{"bad base64", map[string]interface{}{"content": "data:text/html;base64,@@@"}},
		{"bad mime", map[string]interface{}{"content": "data:image/png;base64,aGVsbG8="}},
		{"not an export", map[string]interface{}{"content": "just some words"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := callTool(t, srv, "import_bookmarks", tt.args)
			if !r.IsError {
				t.Errorf("expected error, got %q", resultText(r))
			}
		})
	}
}

func TestDedupeFolders(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "dedupe_folders", map[string]interface{}{})
	if got := resultText(r); got != "merged: 0" {
		t.Errorf("dedupe = %q, want merged: 0", got)
	}
}

func TestSearchBookmarks(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "import_bookmarks", map[string]interface{}{"content": export})

	r := callTool(t, srv, "search_bookmarks", map[string]interface{}{"query": "Kubernetes"})
	if r.IsError {
		t.Fatalf("search failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "https://kubernetes.io") {
		t.Errorf("search result = %q", resultText(r))
	}

	r = callTool(t, srv, "search_bookmarks", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing query")
	}
}

func TestListFolders(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_folders", map[string]interface{}{})
	if got := resultText(r); got != "no folders" {
		t.Errorf("empty list = %q", got)
	}

	callTool(t, srv, "import_bookmarks", map[string]interface{}{"content": export})
	text := resultText(callTool(t, srv, "list_folders", map[string]interface{}{}))
	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2", lines)
	}
	if !strings.HasPrefix(lines[0], "- Work (") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  - Projects (") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestFolderTree_Orphans(t *testing.T) {
	folders := []models.Folder{
		{ID: "a", Name: "A", ParentID: "b"},
		{ID: "b", Name: "B", ParentID: "a"},
		{ID: "c", Name: "C", ParentID: "gone"},
	}
	got := folderTree(folders)
	for _, want := range []string{"A (a)", "B (b)", "- C (c)"} {
		if !strings.Contains(got, want) {
			t.Errorf("tree %q missing %q", got, want)
		}
	}
}

func TestReportOrphans(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "import_bookmarks", map[string]interface{}{"content": export})

	r := callTool(t, srv, "report_orphans", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("report failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"uncategorized_count": 1`) {
		t.Errorf("report = %q", resultText(r))
	}
}

func TestRepairImport(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "import_bookmarks", map[string]interface{}{"content": `[{"url":"https://go.dev","title":"Go"}]`})

	r := callTool(t, srv, "repair_import", map[string]interface{}{"content": export})
	if r.IsError {
		t.Fatalf("repair failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"updated_bookmarks": 1`) {
		t.Errorf("repair = %q", resultText(r))
	}
}

func TestGetImportFormats(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_import_formats", map[string]interface{}{})
	if resultText(r) != ImportFormatContract {
		t.Error("import formats text mismatch")
	}
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"raw", "<DL></DL>", "<DL></DL>", false},
		{"data uri", "data:text/html;base64,PERMPjwvREw+", "<DL></DL>", false},
		{"no mime", "data:;base64,aGk=", "hi", false},
		{"no comma", "data:text/html;base64", "", true},
		{"not base64", "data:text/html,plain", "", true},
		{"bad mime", "data:image/png;base64,aGk=", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePayload(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
