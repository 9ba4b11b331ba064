package markdown

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/typeline/go-posts/pkg/interfaces"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/site/ansible/vault-rotation.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.Title != "Rotating Ansible Vault Passwords Without Downtime" {
		t.Fatalf("FrontMatter Title mismatch, got %q", fm.Title)
	}
	if fm.Slug != "ansible-vault-rotation" {
		t.Fatalf("FrontMatter Slug mismatch, got %q", fm.Slug)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "ansible" {
		t.Fatalf("FrontMatter Tags mismatch: %#v", fm.Tags)
	}
	if fm.Status != "published" {
		t.Fatalf("FrontMatter Status mismatch, got %q", fm.Status)
	}
	if fm.Date.IsZero() {
		t.Fatalf("FrontMatter Date should be parsed")
	}
	if fm.Raw["summary"] == nil {
		t.Fatalf("FrontMatter Raw summary missing: %#v", fm.Raw)
	}
	if len(body) == 0 || !strings.Contains(string(body), "ansible-vault rekey") {
		t.Fatalf("Markdown body not returned correctly: %q", string(body))
	}
}

func TestParseFrontMatterDateLayouts(t *testing.T) {
	cases := map[string]string{
		"rfc3339":   "2024-03-12T09:00:00Z",
		"no-zone":   "2024-03-12T09:00:00",
		"spaced":    "2024-03-12 09:00:00",
		"date-only": "2024-03-12",
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			source := []byte("---\ntitle: Layouts\ndate: " + value + "\n---\n\nBody.\n")
			fm, _, err := ParseFrontMatter(source)
			if err != nil {
				t.Fatalf("ParseFrontMatter: %v", err)
			}
			if fm.Date.IsZero() {
				t.Fatalf("expected date %q to parse", value)
			}
			if fm.Date.Year() != 2024 || fm.Date.Month() != time.March || fm.Date.Day() != 12 {
				t.Fatalf("unexpected parsed date %v for %q", fm.Date, value)
			}
		})
	}
}

func TestParseFrontMatterMalformedDateKeptForLint(t *testing.T) {
	source := []byte("---\ntitle: Bad Date\ndate: 03/15/2024\n---\n\nBody.\n")

	fm, _, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("a malformed date must not fail the load: %v", err)
	}
	if !fm.Date.IsZero() {
		t.Fatalf("expected zero date for malformed value, got %v", fm.Date)
	}
	if fm.Raw["date"] != "03/15/2024" {
		t.Fatalf("expected original date value preserved in Raw, got %#v", fm.Raw["date"])
	}
}

func TestBuildDocument(t *testing.T) {
	data := readFixture(t, "testdata/site/ansible/vault-rotation.md")
	modified := time.Now().UTC()

	doc, err := BuildDocument("ansible/vault-rotation.md", "ansible", data, modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}

	if doc.FilePath != "ansible/vault-rotation.md" {
		t.Fatalf("expected FilePath to be set, got %q", doc.FilePath)
	}
	if doc.Section != "ansible" {
		t.Fatalf("expected Section to be ansible, got %q", doc.Section)
	}
	if doc.LastModified != modified {
		t.Fatalf("expected LastModified to equal the provided timestamp")
	}
	if len(doc.BodyHTML) != 0 {
		t.Fatalf("expected lazy rendering, BodyHTML should be empty")
	}
}

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), interfaces.ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wrap <br>, got %q", string(html))
	}
}

func TestGoldmarkParser_SafeModeStripsRawHTML(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("<script>alert(1)</script>"), interfaces.ParseOptions{
		SafeMode: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if strings.Contains(string(html), "<script>") {
		t.Fatalf("expected raw HTML suppressed, got %q", string(html))
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
