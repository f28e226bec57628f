package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/raido/internal/apperr"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Store.Path = filepath.Join(dir, "data")
	cfg.SQLite.Path = filepath.Join(dir, "raido.db")
	return cfg
}

const cliExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
	<DT><H3>Tools</H3>
	<DL><p>
		<DT><A HREF="https://a.test">A</A>
	</DL><p>
	<DT><A HREF="https://b.test">B</A>
</DL><p>`

func TestExec_ImportThenReport(t *testing.T) {
	cfg := testConfig(t)
	file := filepath.Join(t.TempDir(), "export.html")
	if err := os.WriteFile(file, []byte(cliExport), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := Exec(context.Background(), cfg, &out, ImportFile(file)); err != nil {
		t.Fatalf("import: %v", err)
	}
	var sum struct {
		Count          int    `json:"count"`
		CreatedFolders int    `json:"created_folders"`
		Format         string `json:"format"`
	}
	if err := json.Unmarshal(out.Bytes(), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Count != 2 || sum.CreatedFolders != 1 {
		t.Errorf("summary = %+v, want 2 bookmarks and 1 folder", sum)
	}

	for _, name := range []string{"bookmarks.json", "folders.json"} {
		if _, err := os.Stat(filepath.Join(cfg.Store.Path, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	out.Reset()
	if err := Exec(context.Background(), cfg, &out, Report); err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out.String(), `"uncategorized_count": 1`) {
		t.Errorf("report = %s", out.String())
	}
}

func TestExec_Dedupe(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	if err := Exec(context.Background(), cfg, &out, Dedupe); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "{\n  \"merged\": 0\n}" {
		t.Errorf("dedupe = %q", out.String())
	}
}

func TestExec_MissingFile(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	err := Exec(context.Background(), cfg, &out, RepairFile(filepath.Join(t.TempDir(), "nope.html")))
	if !errors.Is(err, apperr.ErrUnreadableUpload) {
		t.Fatalf("err = %v, want ErrUnreadableUpload", err)
	}

	err = Exec(context.Background(), cfg, &out, ImportFile(filepath.Join(t.TempDir(), "nope.html")))
	if !errors.Is(err, apperr.ErrUnreadableUpload) {
		t.Fatalf("err = %v, want ErrUnreadableUpload", err)
	}
}

func TestExec_DefaultSampleLimit(t *testing.T) {
	cfg := testConfig(t)

	var records strings.Builder
	records.WriteString("[")
	for i := range 250 {
		if i > 0 {
			records.WriteString(",")
		}
		fmt.Fprintf(&records, `{"url":"https://site%d.test","title":"Site %d"}`, i, i)
	}
	records.WriteString("]")
	file := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(file, []byte(records.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := Exec(context.Background(), cfg, &out, ImportFile(file)); err != nil {
		t.Fatalf("import: %v", err)
	}

	out.Reset()
	if err := Exec(context.Background(), cfg, &out, Report); err != nil {
		t.Fatalf("report: %v", err)
	}
	var report struct {
		UncategorizedCount int               `json:"uncategorized_count"`
		Sample             []json.RawMessage `json:"sample"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.UncategorizedCount != 250 {
		t.Errorf("uncategorized count = %d, want 250", report.UncategorizedCount)
	}
	if len(report.Sample) != 200 {
		t.Errorf("report sample = %d, want 200", len(report.Sample))
	}

	listUncategorized := func(ctx context.Context, lib *library, _ io.Writer) error {
		unc, err := lib.svc.ListUncategorized(ctx, 0)
		if err != nil {
			return err
		}
		if unc.Count != 250 {
			t.Errorf("count = %d, want 250", unc.Count)
		}
		if len(unc.Sample) != 200 {
			t.Errorf("sample = %d, want 200", len(unc.Sample))
		}
		return nil
	}
	if err := Exec(context.Background(), cfg, &out, listUncategorized); err != nil {
		t.Fatal(err)
	}
}
