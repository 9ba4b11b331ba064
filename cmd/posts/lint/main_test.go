package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/typeline/go-posts/cmd/posts/internal/bootstrap"
	"github.com/typeline/go-posts/internal/logging"
	"github.com/typeline/go-posts/pkg/interfaces"
)

type stubMarkdownService struct {
	loadedDir string
	docs      []*interfaces.Document
}

func (s *stubMarkdownService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) LoadDirectory(_ context.Context, dir string, _ interfaces.LoadOptions) ([]*interfaces.Document, error) {
	s.loadedDir = dir
	return s.docs, nil
}

func (s *stubMarkdownService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) Import(context.Context, *interfaces.Document, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubMarkdownService) ImportDirectory(context.Context, string, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubMarkdownService) Sync(context.Context, string, interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	return nil, nil
}

type stubLinter struct {
	report *interfaces.LintReport
	opts   interfaces.LintOptions
}

func (s *stubLinter) LintDocument(context.Context, *interfaces.Document, interfaces.LintOptions) ([]interfaces.LintIssue, error) {
	return nil, nil
}

func (s *stubLinter) LintDocuments(_ context.Context, _ []*interfaces.Document, opts interfaces.LintOptions) (*interfaces.LintReport, error) {
	s.opts = opts
	return s.report, nil
}

func swapBuilder(t *testing.T, svc interfaces.MarkdownService, linter interfaces.Linter) {
	t.Helper()
	original := moduleBuilder
	t.Cleanup(func() { moduleBuilder = original })

	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Service: svc,
			Linter:  linter,
			Logger:  logging.NoOp(),
		}, nil
	}
}

func TestRunLintCleanRunExitsZero(t *testing.T) {
	svc := &stubMarkdownService{}
	linter := &stubLinter{report: &interfaces.LintReport{Files: 2}}
	swapBuilder(t, svc, linter)

	var out bytes.Buffer
	code, err := runLint([]string{"-directory", "foundry", "-skip-links"}, &out)
	if err != nil {
		t.Fatalf("runLint returned error: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if svc.loadedDir != "foundry" {
		t.Fatalf("expected lint to load foundry, got %s", svc.loadedDir)
	}
	if !linter.opts.SkipLinks {
		t.Fatal("expected skip-links flag forwarded to lint options")
	}
	if !strings.Contains(out.String(), "checked 2 files: 0 errors, 0 warnings") {
		t.Fatalf("unexpected report output: %s", out.String())
	}
}

func TestRunLintErrorsExitOne(t *testing.T) {
	report := &interfaces.LintReport{
		Files:  1,
		Errors: 1,
		Issues: []interfaces.LintIssue{{
			Rule:     "title-required",
			Severity: interfaces.LintError,
			Path:     "ansible/broken.md",
			Message:  "front matter title is empty",
		}},
	}
	swapBuilder(t, &stubMarkdownService{}, &stubLinter{report: report})

	var out bytes.Buffer
	code, err := runLint([]string{"-directory", "."}, &out)
	if err != nil {
		t.Fatalf("runLint returned error: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected exit code 1 when errors are reported, got %d", code)
	}
	if !strings.Contains(out.String(), "ansible/broken.md: error [title-required]") {
		t.Fatalf("expected issue line in output, got %s", out.String())
	}
}

func TestRunLintRequiresLinter(t *testing.T) {
	swapBuilder(t, &stubMarkdownService{}, nil)

	var out bytes.Buffer
	if _, err := runLint([]string{}, &out); err == nil {
		t.Fatal("expected error when linter is not configured")
	}
}
