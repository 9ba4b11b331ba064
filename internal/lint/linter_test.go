package lint

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/typeline/go-posts/internal/markdown"
	"github.com/typeline/go-posts/pkg/interfaces"
)

const cleanPost = `---
title: Hardening SSH With Ansible
slug: hardening-ssh
date: 2024-02-10T10:00:00Z
---

Disable password auth across the fleet:

` + "```yaml" + `
- name: disable password auth
  ansible.builtin.lineinfile:
    path: /etc/ssh/sshd_config
    line: "PasswordAuthentication no"
` + "```" + `

See the [follow-up](hardening-sudo.md) and the
[upstream docs](https://docs.ansible.com/).
`

const brokenPost = `---
slug: Bad Slug Here!
date: 2031-06-01T00:00:00Z
---

A [missing page](does-not-exist.md) and a [bad scheme](ftp://mirror.example.com/iso).

` + "```bash" + `
` + "```" + `
`

func TestLintDocumentCleanPostHasNoIssues(t *testing.T) {
	linter := newTestLinter(t, fstest.MapFS{
		"ansible/hardening-ssh.md":  {Data: []byte(cleanPost)},
		"ansible/hardening-sudo.md": {Data: []byte("---\ntitle: Sudo\ndate: 2024-02-11T10:00:00Z\n---\n\nBody.\n")},
	})

	doc := buildDoc(t, "ansible/hardening-ssh.md", cleanPost)

	issues, err := linter.LintDocument(context.Background(), doc, interfaces.LintOptions{})
	if err != nil {
		t.Fatalf("LintDocument: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %#v", issues)
	}
}

func TestLintDocumentReportsUnparseableDate(t *testing.T) {
	const post = "---\ntitle: Bad Date\ndate: 03/15/2024\n---\n\nBody.\n"
	linter := newTestLinter(t, fstest.MapFS{
		"ansible/bad-date.md": {Data: []byte(post)},
	})

	doc := buildDoc(t, "ansible/bad-date.md", post)

	issues, err := linter.LintDocument(context.Background(), doc, interfaces.LintOptions{})
	if err != nil {
		t.Fatalf("LintDocument: %v", err)
	}

	rules := map[string]int{}
	var detail string
	for _, issue := range issues {
		rules[issue.Rule]++
		if issue.Rule == RuleDateValid {
			detail = issue.Detail
		}
	}
	if rules[RuleDateValid] != 1 {
		t.Fatalf("expected one unparseable date issue, got %#v", rules)
	}
	if detail != "03/15/2024" {
		t.Fatalf("expected offending value in detail, got %q", detail)
	}
	if rules[RuleDateRequired] != 0 {
		t.Fatalf("missing-date rule must not fire for an unparseable date: %#v", rules)
	}
}

func TestLintDocumentReportsEditorialProblems(t *testing.T) {
	linter := newTestLinter(t, fstest.MapFS{
		"ansible/broken.md": {Data: []byte(brokenPost)},
	})

	doc := buildDoc(t, "ansible/broken.md", brokenPost)

	issues, err := linter.LintDocument(context.Background(), doc, interfaces.LintOptions{})
	if err != nil {
		t.Fatalf("LintDocument: %v", err)
	}

	rules := map[string]int{}
	for _, issue := range issues {
		rules[issue.Rule]++
	}

	if rules[RuleTitleRequired] != 1 {
		t.Fatalf("expected missing title issue, got %#v", rules)
	}
	if rules[RuleDateFuture] != 1 {
		t.Fatalf("expected future date warning, got %#v", rules)
	}
	if rules[RuleSlugValid] != 1 {
		t.Fatalf("expected invalid slug issue, got %#v", rules)
	}
	if rules[RuleLinkResolves] != 2 {
		t.Fatalf("expected two link issues, got %#v", rules)
	}
	if rules[RuleCodeBlockEmpty] != 1 {
		t.Fatalf("expected empty code block issue, got %#v", rules)
	}
	if rules[RuleFrontMatterSchema] == 0 {
		t.Fatalf("expected schema violation for missing title, got %#v", rules)
	}
}

func TestLintDocumentSkipsChecksOnRequest(t *testing.T) {
	linter := newTestLinter(t, fstest.MapFS{
		"ansible/broken.md": {Data: []byte(brokenPost)},
	})

	doc := buildDoc(t, "ansible/broken.md", brokenPost)

	issues, err := linter.LintDocument(context.Background(), doc, interfaces.LintOptions{
		SkipLinks:  true,
		SkipSchema: true,
	})
	if err != nil {
		t.Fatalf("LintDocument: %v", err)
	}
	for _, issue := range issues {
		if issue.Rule == RuleLinkResolves || issue.Rule == RuleFrontMatterSchema {
			t.Fatalf("expected skipped rule, got %#v", issue)
		}
	}
}

func TestLintDocumentsDetectsDuplicateSlugs(t *testing.T) {
	const first = "---\ntitle: One\nslug: shared\ndate: 2024-01-01T00:00:00Z\n---\n\nBody.\n"
	const second = "---\ntitle: Two\nslug: shared\ndate: 2024-01-02T00:00:00Z\n---\n\nBody.\n"

	linter := newTestLinter(t, fstest.MapFS{
		"a.md": {Data: []byte(first)},
		"b.md": {Data: []byte(second)},
	})

	docs := []*interfaces.Document{
		buildDoc(t, "a.md", first),
		buildDoc(t, "b.md", second),
	}

	report, err := linter.LintDocuments(context.Background(), docs, interfaces.LintOptions{})
	if err != nil {
		t.Fatalf("LintDocuments: %v", err)
	}

	var duplicates int
	for _, issue := range report.Issues {
		if issue.Rule == RuleSlugDuplicate {
			duplicates++
			if !strings.Contains(issue.Message, "a.md") {
				t.Fatalf("expected duplicate message to name the first file, got %q", issue.Message)
			}
		}
	}
	if duplicates != 1 {
		t.Fatalf("expected one duplicate slug issue, got %d", duplicates)
	}
	if report.Files != 2 {
		t.Fatalf("expected 2 files counted, got %d", report.Files)
	}
	if !report.HasErrors() {
		t.Fatalf("expected report to flag errors")
	}
}

func TestLintDocumentsCountsSeverities(t *testing.T) {
	const futureOnly = "---\ntitle: Scheduled\ndate: 2031-01-01T00:00:00Z\n---\n\nBody.\n"

	linter := newTestLinter(t, fstest.MapFS{
		"scheduled.md": {Data: []byte(futureOnly)},
	})

	report, err := linter.LintDocuments(context.Background(), []*interfaces.Document{
		buildDoc(t, "scheduled.md", futureOnly),
	}, interfaces.LintOptions{})
	if err != nil {
		t.Fatalf("LintDocuments: %v", err)
	}

	if report.Errors != 0 || report.Warnings != 1 {
		t.Fatalf("expected warning-only report, got errors=%d warnings=%d", report.Errors, report.Warnings)
	}
	if report.HasErrors() {
		t.Fatalf("warnings must not fail the run")
	}
}

func TestRelativeLinksResolveAgainstContentRoot(t *testing.T) {
	const post = "---\ntitle: Index\ndate: 2024-01-01T00:00:00Z\n---\n\nSee [assets](/images/diagram.png).\n"

	linter := newTestLinter(t, fstest.MapFS{
		"guides/index.md":    {Data: []byte(post)},
		"images/diagram.png": {Data: []byte{0x89}},
	})

	issues, err := linter.LintDocument(context.Background(), buildDoc(t, "guides/index.md", post), interfaces.LintOptions{})
	if err != nil {
		t.Fatalf("LintDocument: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected root-relative link to resolve, got %#v", issues)
	}
}

func newTestLinter(tb testing.TB, fsys fstest.MapFS) *Linter {
	tb.Helper()
	linter, err := NewLinter(fsys, Config{}, nil)
	if err != nil {
		tb.Fatalf("NewLinter: %v", err)
	}
	return linter
}

func buildDoc(tb testing.TB, path, source string) *interfaces.Document {
	tb.Helper()
	doc, err := markdown.BuildDocument(path, "ansible", []byte(source), time.Now().UTC())
	if err != nil {
		tb.Fatalf("BuildDocument(%s): %v", path, err)
	}
	return doc
}
