package lint

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/typeline/go-posts/internal/logging"
	"github.com/typeline/go-posts/internal/markdown"
	"github.com/typeline/go-posts/pkg/interfaces"
)

// Rule identifiers reported on lint issues.
const (
	RuleTitleRequired     = "title-required"
	RuleDateRequired      = "date-required"
	RuleDateValid         = "date-valid"
	RuleDateFuture        = "date-future"
	RuleSlugValid         = "slug-valid"
	RuleSlugDuplicate     = "slug-duplicate"
	RuleLinkResolves      = "link-resolves"
	RuleCodeBlockEmpty    = "code-block-empty"
	RuleFrontMatterSchema = "frontmatter-schema"
)

var defaultExternalSchemes = []string{"http", "https", "mailto"}

// Config controls which checks run and how absolute links are judged.
type Config struct {
	SkipLinks       bool
	SkipSchema      bool
	ExternalSchemes []string
}

// Linter implements interfaces.Linter over a content filesystem. Relative
// link targets are resolved against that filesystem; external links are only
// checked for well-formedness, never fetched.
type Linter struct {
	fsys    fs.FS
	cfg     Config
	schema  *jsonschema.Schema
	schemes map[string]struct{}
	logger  interfaces.Logger
}

// NewLinter constructs a Linter rooted at the supplied content filesystem.
func NewLinter(fsys fs.FS, cfg Config, logger interfaces.Logger) (*Linter, error) {
	schema, err := compileFrontMatterSchema()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.NoOp()
	}

	schemes := cfg.ExternalSchemes
	if len(schemes) == 0 {
		schemes = defaultExternalSchemes
	}
	allowed := make(map[string]struct{}, len(schemes))
	for _, scheme := range schemes {
		allowed[strings.ToLower(strings.TrimSpace(scheme))] = struct{}{}
	}

	return &Linter{
		fsys:    fsys,
		cfg:     cfg,
		schema:  schema,
		schemes: allowed,
		logger:  logger,
	}, nil
}

// LintDocument runs every enabled check against a single document.
func (l *Linter) LintDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.LintOptions) ([]interfaces.LintIssue, error) {
	if doc == nil {
		return nil, fmt.Errorf("lint: nil document")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var issues []interfaces.LintIssue
	issues = append(issues, l.checkFrontMatter(doc)...)

	if !l.skipSchema(opts) {
		issues = append(issues, l.checkSchema(doc)...)
	}

	links, blocks, err := inspectBody(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("lint: inspect %s: %w", doc.FilePath, err)
	}

	if !l.skipLinks(opts) {
		issues = append(issues, l.checkLinks(doc, links, opts)...)
	}
	issues = append(issues, checkCodeBlocks(doc, blocks)...)

	return issues, nil
}

// LintDocuments lints a set of documents and aggregates a report, adding
// cross-file checks such as duplicate slug detection.
func (l *Linter) LintDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.LintOptions) (*interfaces.LintReport, error) {
	report := &interfaces.LintReport{Issues: []interfaces.LintIssue{}}

	seen := map[string]string{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		issues, err := l.LintDocument(ctx, doc, opts)
		if err != nil {
			return nil, err
		}
		report.Issues = append(report.Issues, issues...)
		report.Files++

		postSlug, err := markdown.ResolveSlug(doc)
		if err != nil {
			continue
		}
		if prior, ok := seen[postSlug]; ok {
			report.Issues = append(report.Issues, interfaces.LintIssue{
				Rule:     RuleSlugDuplicate,
				Severity: interfaces.LintError,
				Path:     doc.FilePath,
				Message:  fmt.Sprintf("slug %q already used by %s", postSlug, prior),
				Detail:   postSlug,
			})
			continue
		}
		seen[postSlug] = doc.FilePath
	}

	for _, issue := range report.Issues {
		switch issue.Severity {
		case interfaces.LintWarning:
			report.Warnings++
		default:
			report.Errors++
		}
	}

	logging.WithFields(l.logger, map[string]any{
		"files":    report.Files,
		"errors":   report.Errors,
		"warnings": report.Warnings,
	}).Info("lint.run.completed")

	return report, nil
}

func (l *Linter) checkFrontMatter(doc *interfaces.Document) []interfaces.LintIssue {
	var issues []interfaces.LintIssue

	if strings.TrimSpace(doc.FrontMatter.Title) == "" {
		issues = append(issues, interfaces.LintIssue{
			Rule:     RuleTitleRequired,
			Severity: interfaces.LintError,
			Path:     doc.FilePath,
			Message:  "front matter title is empty",
		})
	}

	if doc.FrontMatter.Date.IsZero() {
		if raw := rawDateValue(doc.FrontMatter.Raw); raw != "" {
			issues = append(issues, interfaces.LintIssue{
				Rule:     RuleDateValid,
				Severity: interfaces.LintError,
				Path:     doc.FilePath,
				Message:  "front matter date is not a valid timestamp",
				Detail:   raw,
			})
		} else {
			issues = append(issues, interfaces.LintIssue{
				Rule:     RuleDateRequired,
				Severity: interfaces.LintError,
				Path:     doc.FilePath,
				Message:  "front matter date is missing or zero",
			})
		}
	} else if doc.FrontMatter.Date.After(time.Now().Add(24 * time.Hour)) {
		issues = append(issues, interfaces.LintIssue{
			Rule:     RuleDateFuture,
			Severity: interfaces.LintWarning,
			Path:     doc.FilePath,
			Message:  "front matter date is in the future",
			Detail:   doc.FrontMatter.Date.Format(time.RFC3339),
		})
	}

	if explicit := strings.TrimSpace(doc.FrontMatter.Slug); explicit != "" && !slug.IsValid(explicit) {
		issues = append(issues, interfaces.LintIssue{
			Rule:     RuleSlugValid,
			Severity: interfaces.LintError,
			Path:     doc.FilePath,
			Message:  "front matter slug contains invalid characters",
			Detail:   explicit,
		})
	}

	return issues
}

// rawDateValue recovers the original date string when parsing produced a zero
// time, so the report can show the offending value.
func rawDateValue(raw map[string]any) string {
	value, ok := raw["date"]
	if !ok {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func (l *Linter) checkSchema(doc *interfaces.Document) []interfaces.LintIssue {
	payload, err := normalizeForSchema(doc.FrontMatter.Raw)
	if err != nil {
		return []interfaces.LintIssue{{
			Rule:     RuleFrontMatterSchema,
			Severity: interfaces.LintError,
			Path:     doc.FilePath,
			Message:  err.Error(),
		}}
	}

	if err := l.schema.Validate(payload); err != nil {
		return []interfaces.LintIssue{{
			Rule:     RuleFrontMatterSchema,
			Severity: interfaces.LintError,
			Path:     doc.FilePath,
			Message:  "front matter does not match the post schema",
			Detail:   err.Error(),
		}}
	}
	return nil
}

func (l *Linter) checkLinks(doc *interfaces.Document, links []linkRef, opts interfaces.LintOptions) []interfaces.LintIssue {
	var issues []interfaces.LintIssue

	allowed := l.schemes
	if len(opts.ExternalSchemes) > 0 {
		allowed = make(map[string]struct{}, len(opts.ExternalSchemes))
		for _, scheme := range opts.ExternalSchemes {
			allowed[strings.ToLower(strings.TrimSpace(scheme))] = struct{}{}
		}
	}

	for _, link := range links {
		target := strings.TrimSpace(link.Target)
		if target == "" {
			issues = append(issues, linkIssue(doc, link, "link target is empty"))
			continue
		}
		if strings.HasPrefix(target, "#") {
			// Intra-document fragment; heading IDs are the renderer's concern.
			continue
		}

		if parsed, err := url.Parse(target); err == nil && parsed.Scheme != "" {
			if _, ok := allowed[strings.ToLower(parsed.Scheme)]; !ok {
				issues = append(issues, linkIssue(doc, link, fmt.Sprintf("unsupported link scheme %q", parsed.Scheme)))
				continue
			}
			if parsed.Scheme != "mailto" && parsed.Host == "" {
				issues = append(issues, linkIssue(doc, link, "absolute link is missing a host"))
			}
			continue
		} else if err != nil {
			issues = append(issues, linkIssue(doc, link, "link target is not a valid URL"))
			continue
		}

		if !l.relativeTargetExists(doc.FilePath, target) {
			issues = append(issues, linkIssue(doc, link, "relative link target does not exist"))
		}
	}

	return issues
}

func (l *Linter) relativeTargetExists(docPath, target string) bool {
	if l.fsys == nil {
		return true
	}

	// Drop fragments and queries before touching the filesystem.
	if idx := strings.IndexAny(target, "#?"); idx >= 0 {
		target = target[:idx]
	}
	if target == "" {
		return true
	}

	var resolved string
	if strings.HasPrefix(target, "/") {
		resolved = path.Clean(strings.TrimPrefix(target, "/"))
	} else {
		resolved = path.Clean(path.Join(path.Dir(docPath), target))
	}
	if resolved == "." || strings.HasPrefix(resolved, "..") {
		return false
	}

	_, err := fs.Stat(l.fsys, resolved)
	return err == nil
}

func checkCodeBlocks(doc *interfaces.Document, blocks []codeRef) []interfaces.LintIssue {
	var issues []interfaces.LintIssue
	for _, block := range blocks {
		if !block.Empty {
			continue
		}
		message := "code block is empty"
		if block.Info != "" {
			message = fmt.Sprintf("code block (%s) is empty", block.Info)
		}
		issues = append(issues, interfaces.LintIssue{
			Rule:     RuleCodeBlockEmpty,
			Severity: interfaces.LintError,
			Path:     doc.FilePath,
			Message:  message,
			Detail:   block.Info,
		})
	}
	return issues
}

func linkIssue(doc *interfaces.Document, link linkRef, message string) interfaces.LintIssue {
	kind := "link"
	if link.Image {
		kind = "image"
	}
	return interfaces.LintIssue{
		Rule:     RuleLinkResolves,
		Severity: interfaces.LintError,
		Path:     doc.FilePath,
		Message:  fmt.Sprintf("%s: %s", kind, message),
		Detail:   link.Target,
	}
}

func (l *Linter) skipLinks(opts interfaces.LintOptions) bool {
	return l.cfg.SkipLinks || opts.SkipLinks
}

func (l *Linter) skipSchema(opts interfaces.LintOptions) bool {
	return l.cfg.SkipSchema || opts.SkipSchema
}
