package interfaces

import "context"

// LintSeverity classifies lint findings.
type LintSeverity string

const (
	// LintError marks findings that should fail an editorial gate.
	LintError LintSeverity = "error"
	// LintWarning marks findings worth surfacing without blocking publishes.
	LintWarning LintSeverity = "warning"
)

// LintIssue describes a single finding against a post file.
type LintIssue struct {
	Rule     string       `json:"rule"`
	Severity LintSeverity `json:"severity"`
	Path     string       `json:"path"`
	Message  string       `json:"message"`
	// Detail carries the offending value (a link target, a slug) when the
	// rule has one.
	Detail string `json:"detail,omitempty"`
}

// LintReport aggregates findings for a lint run.
type LintReport struct {
	Issues   []LintIssue `json:"issues"`
	Files    int         `json:"files"`
	Errors   int         `json:"errors"`
	Warnings int         `json:"warnings"`
}

// HasErrors reports whether any issue carries the error severity.
func (r *LintReport) HasErrors() bool {
	return r != nil && r.Errors > 0
}

// LintOptions toggles individual editorial checks. The zero value runs every
// check.
type LintOptions struct {
	SkipLinks  bool
	SkipSchema bool
	// ExternalSchemes lists URL schemes accepted for absolute links.
	// Defaults to http, https and mailto when empty.
	ExternalSchemes []string
}

// Linter runs editorial checks over loaded documents.
type Linter interface {
	LintDocument(ctx context.Context, doc *Document, opts LintOptions) ([]LintIssue, error)
	LintDocuments(ctx context.Context, docs []*Document, opts LintOptions) (*LintReport, error)
}
