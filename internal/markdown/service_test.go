package markdown

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/typeline/go-posts/pkg/interfaces"
)

func TestServiceLoad(t *testing.T) {
	svc := newTestService(t, true)

	doc, err := svc.Load(context.Background(), "ansible/vault-rotation.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.Section != "ansible" {
		t.Fatalf("expected section ansible, got %s", doc.Section)
	}
	if doc.FrontMatter.Title != "Rotating Ansible Vault Passwords Without Downtime" {
		t.Fatalf("unexpected title: %s", doc.FrontMatter.Title)
	}
	if len(doc.BodyHTML) == 0 {
		t.Fatalf("expected BodyHTML to be populated")
	}
	if len(doc.Checksum) == 0 {
		t.Fatalf("expected checksum to be populated")
	}
	if !strings.Contains(string(doc.BodyHTML), "<code") {
		t.Fatalf("expected rendered code block, got %s", doc.BodyHTML)
	}
}

func TestServiceLoadDirectory_MixedSections(t *testing.T) {
	svc := newTestService(t, true)

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	sections := map[string]int{}
	for _, doc := range docs {
		sections[doc.Section]++
		if filepath.Ext(doc.FilePath) != ".md" {
			t.Fatalf("expected markdown file, got %s", doc.FilePath)
		}
		if len(doc.Checksum) == 0 {
			t.Fatalf("expected checksum set for %s", doc.FilePath)
		}
	}

	if sections["ansible"] != 1 || sections["foundry"] != 1 || sections["posts"] != 1 {
		t.Fatalf("unexpected section distribution: %#v", sections)
	}
}

func TestServiceLoadDirectory_NonRecursiveOverride(t *testing.T) {
	svc := newTestService(t, true)

	no := false
	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{
		Recursive: &no,
	})
	if err != nil {
		t.Fatalf("LoadDirectory override: %v", err)
	}

	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].FilePath != "notes.md" {
		t.Fatalf("expected notes.md, got %s", docs[0].FilePath)
	}
}

func TestServiceRenderDocument(t *testing.T) {
	svc := newTestService(t, true)

	doc := &interfaces.Document{Body: []byte("# Heading\n\nSome *text*.")}
	html, err := svc.RenderDocument(context.Background(), doc, interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	if !strings.Contains(string(html), "<h1") {
		t.Fatalf("expected heading in output, got %s", html)
	}
	if string(doc.BodyHTML) != string(html) {
		t.Fatalf("expected BodyHTML to be set on the document")
	}
}

func TestServiceImportWithoutStore(t *testing.T) {
	svc := newTestService(t, true)

	if _, err := svc.ImportDirectory(context.Background(), ".", interfaces.ImportOptions{}); err != ErrStoreRequired {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
	if _, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{}); err != ErrStoreRequired {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
}

func newTestService(tb testing.TB, recursive bool) *Service {
	tb.Helper()

	baseCfg := Config{
		BasePath:       filepath.Join("testdata", "site"),
		DefaultSection: "posts",
		Sections:       []string{"ansible", "foundry"},
		Pattern:        "*.md",
		Recursive:      recursive,
	}

	svc, err := NewService(baseCfg, nil, nil)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc
}
