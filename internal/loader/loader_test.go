package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/frangdelsolar/cms-modelform/pkg/schema"
)

const widgetSchema = `{"$ref":"#/defs/Widget","defs":{"Widget":{"properties":{"name":{"type":"string"}}}}}`

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.json")
	if err := os.WriteFile(path, []byte(widgetSchema), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := New(schema.NewLoaderOptions())
	doc, err := l.Load(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tree, err := doc.Tree()
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if ptr, _ := tree.Ref(); ptr != "#/defs/Widget" {
		t.Fatalf("unexpected pointer %q", ptr)
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{
		"schemas/widget.yaml": {Data: []byte("$ref: '#/defs/Widget'\ndefs:\n  Widget: {}\n")},
	}
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), schema.SourceFromFS("/schemas/widget.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Location() != "schemas/widget.yaml" {
		t.Fatalf("unexpected location %q", doc.Location())
	}

	if _, err := l.Load(context.Background(), schema.SourceFromFS("missing.json")); err == nil {
		t.Fatalf("expected error for missing entry")
	}
}

func TestLoader_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/widget.json":
			_, _ = w.Write([]byte(widgetSchema))
		case "/large.json":
			_, _ = w.Write([]byte(strings.Repeat(" ", 512)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src, err := schema.SourceFromURL(server.URL + "/widget.json")
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	disabled := New(schema.NewLoaderOptions())
	if _, err := disabled.Load(context.Background(), src); err == nil {
		t.Fatalf("expected http to be disabled by default")
	}

	l := New(schema.NewLoaderOptions(schema.WithHTTPClient(server.Client()), schema.WithMaxDocumentBytes(256)))
	doc, err := l.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != widgetSchema {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	missing, _ := schema.SourceFromURL(server.URL + "/missing.json")
	if _, err := l.Load(context.Background(), missing); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}

	large, _ := schema.SourceFromURL(server.URL + "/large.json")
	if _, err := l.Load(context.Background(), large); err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(schema.NewLoaderOptions())
	if _, err := l.Load(ctx, schema.SourceFromFile("whatever.json")); err == nil {
		t.Fatalf("expected canceled context error")
	}
}
