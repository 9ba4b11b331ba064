package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/typeline/go-posts/cmd/posts/internal/bootstrap"
	postscmd "github.com/typeline/go-posts/internal/commands/posts"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("posts import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("posts-import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the post content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering post files")
	sections := fs.String("sections", "", "Comma separated list of allowed sections (defaults to any)")
	defaultSection := fs.String("default-section", "posts", "Section assigned to posts outside a section directory")
	directory := fs.String("directory", ".", "Directory to import, relative to the content root")
	dsn := fs.String("dsn", "file:posts.db?_fk=1", "SQLite DSN for the content index")
	status := fs.String("status", "", "Status override applied to every imported post")
	dryRun := fs.Bool("dry-run", false, "Preview changes without touching the content index")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:     *contentDir,
		Pattern:        *pattern,
		Recursive:      true,
		Sections:       bootstrap.SplitList(*sections),
		DefaultSection: *defaultSection,
		StoreDSN:       *dsn,
		StoreEnabled:   true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	handler := postscmd.NewImportDirectoryHandler(module.Service, module.Logger, module.Gates)
	cmd := postscmd.ImportDirectoryCommand{
		Directory: *directory,
		Status:    *status,
		DryRun:    *dryRun,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "posts import command executed successfully")

	return nil
}
