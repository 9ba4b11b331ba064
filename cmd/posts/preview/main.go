package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/typeline/go-posts/cmd/posts/internal/bootstrap"
	"github.com/typeline/go-posts/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	var (
		contentDir     = flag.String("content-dir", "content", "Path to the post content root")
		pattern        = flag.String("pattern", "*.md", "Glob pattern applied when discovering post files")
		sections       = flag.String("sections", "", "Comma separated list of allowed sections (defaults to any)")
		defaultSection = flag.String("default-section", "posts", "Section assigned to posts outside a section directory")
		filePath       = flag.String("file", "", "Post file to preview (relative to the content root)")
		renderHTML     = flag.Bool("render-html", true, "Render the post body into HTML as part of the preview")
	)

	flag.Parse()

	if *filePath == "" {
		log.Fatalf("--file is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:     *contentDir,
		Pattern:        *pattern,
		Recursive:      true,
		Sections:       bootstrap.SplitList(*sections),
		DefaultSection: *defaultSection,
	})
	if err != nil {
		log.Fatalf("bootstrap module: %v", err)
	}
	defer module.Module.Close()

	ctx := context.Background()

	doc, err := module.Service.Load(ctx, *filePath, interfaces.LoadOptions{})
	if err != nil {
		log.Fatalf("load post: %v", err)
	}

	if *renderHTML {
		if _, err := module.Service.RenderDocument(ctx, doc, interfaces.ParseOptions{}); err != nil {
			log.Fatalf("render post: %v", err)
		}
	}

	fmt.Fprintf(os.Stdout, "Path: %s\nSection: %s\nChecksum: %x\n\n", doc.FilePath, doc.Section, doc.Checksum)

	if doc.FrontMatter.Raw != nil {
		frontmatter, err := json.MarshalIndent(doc.FrontMatter.Raw, "", "  ")
		if err == nil {
			fmt.Fprintf(os.Stdout, "Frontmatter:\n%s\n\n", frontmatter)
		}
	}

	if *renderHTML {
		fmt.Fprintf(os.Stdout, "Rendered HTML:\n%s\n", string(doc.BodyHTML))
	} else {
		fmt.Fprintf(os.Stdout, "Post Body:\n%s\n", string(doc.Body))
	}
}
