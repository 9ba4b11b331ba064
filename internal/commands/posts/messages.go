package postscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importDirectoryMessageType = "posts.import_directory"
	syncDirectoryMessageType   = "posts.sync_directory"
	lintDirectoryMessageType   = "posts.lint_directory"
)

// ImportDirectoryCommand triggers a filesystem walk for post files under the
// provided Directory and records them in the content index.
type ImportDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load post files from.
	Directory string `json:"directory"`
	// Status overrides the front-matter status on every imported document when non-empty.
	Status string `json:"status,omitempty"`
	// DryRun toggles preview mode to collect import diffs without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireNonBlank("posts.import_directory.directory_required"))),
	)
}

// SyncDirectoryCommand reconciles the content index against the post files
// under the provided Directory.
type SyncDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load post files from.
	Directory string `json:"directory"`
	// Status overrides the front-matter status on every imported document when non-empty.
	Status string `json:"status,omitempty"`
	// DryRun toggles preview mode to collect sync diffs without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// DeleteOrphaned removes index records without matching post files when true.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireNonBlank("posts.sync_directory.directory_required"))),
	)
}

// LintDirectoryCommand runs the editorial checks over every post file under
// the provided Directory.
type LintDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load post files from.
	Directory string `json:"directory"`
	// SkipLinks disables hyperlink resolution checks.
	SkipLinks bool `json:"skip_links,omitempty"`
	// SkipSchema disables front-matter schema validation.
	SkipSchema bool `json:"skip_schema,omitempty"`
}

// Type implements command.Message.
func (LintDirectoryCommand) Type() string { return lintDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd LintDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireNonBlank("posts.lint_directory.directory_required"))),
	)
}

func requireNonBlank(code string) func(value any) error {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, "directory is required")
		}
		return nil
	}
}
