package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/typeline/go-posts/cmd/posts/internal/bootstrap"
	postscmd "github.com/typeline/go-posts/internal/commands/posts"
	"github.com/typeline/go-posts/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	code, err := runLint(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatalf("posts lint: %v", err)
	}
	os.Exit(code)
}

func runLint(args []string, out io.Writer) (int, error) {
	fs := flag.NewFlagSet("posts-lint", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the post content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering post files")
	sections := fs.String("sections", "", "Comma separated list of allowed sections (defaults to any)")
	defaultSection := fs.String("default-section", "posts", "Section assigned to posts outside a section directory")
	directory := fs.String("directory", ".", "Directory to lint, relative to the content root")
	schemes := fs.String("schemes", "", "Comma separated list of allowed external link schemes")
	skipLinks := fs.Bool("skip-links", false, "Skip hyperlink resolution checks")
	skipSchema := fs.Bool("skip-schema", false, "Skip front-matter schema validation")

	if err := fs.Parse(args); err != nil {
		return 0, err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:     *contentDir,
		Pattern:        *pattern,
		Recursive:      true,
		Sections:       bootstrap.SplitList(*sections),
		DefaultSection: *defaultSection,
		LintSchemes:    bootstrap.SplitList(*schemes),
	})
	if err != nil {
		return 0, fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	if module.Linter == nil {
		return 0, fmt.Errorf("linter not configured; ensure Features.Lint is enabled")
	}

	handler := postscmd.NewLintDirectoryHandler(module.Service, module.Linter, module.Logger, module.Gates, func(report *interfaces.LintReport) {
		printReport(out, report)
	})
	cmd := postscmd.LintDirectoryCommand{
		Directory:  *directory,
		SkipLinks:  *skipLinks,
		SkipSchema: *skipSchema,
	}

	err = handler.Execute(context.Background(), cmd)
	if errors.Is(err, postscmd.ErrLintFailed) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("execute lint command: %w", err)
	}
	return 0, nil
}

func printReport(out io.Writer, report *interfaces.LintReport) {
	if report == nil {
		return
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(out, "%s: %s [%s] %s", issue.Path, issue.Severity, issue.Rule, issue.Message)
		if issue.Detail != "" {
			fmt.Fprintf(out, " (%s)", issue.Detail)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "checked %d files: %d errors, %d warnings\n", report.Files, report.Errors, report.Warnings)
}
