package markdown

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/typeline/go-posts/internal/identity"
	"github.com/typeline/go-posts/pkg/interfaces"
)

var (
	ErrStoreRequired = errors.New("post importer: post store is required")
	ErrSlugMissing   = errors.New("post importer: slug could not be determined")
	ErrNilDocument   = errors.New("post importer: nil document")
)

// ImporterConfig encapsulates dependencies required to persist post documents.
type ImporterConfig struct {
	Store  interfaces.PostStore
	Logger interfaces.Logger
}

// Importer reconciles parsed post documents with the content index.
type Importer struct {
	store  interfaces.PostStore
	logger interfaces.Logger
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	return &Importer{
		store:  cfg.Store,
		logger: cfg.Logger,
	}
}

// ImportDocument imports a single post document.
func (i *Importer) ImportDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.store == nil {
		return nil, ErrStoreRequired
	}
	acc := newImportAccumulator()
	if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
		acc.addError(err)
	}
	return acc.result(), firstError(acc.errors)
}

// ImportDocuments imports an arbitrary slice of documents in path order.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.store == nil {
		return nil, ErrStoreRequired
	}

	acc := newImportAccumulator()
	for _, doc := range docs {
		if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
			acc.addError(err)
		}
	}
	return acc.result(), firstError(acc.errors)
}

// SyncDocuments imports all provided documents and optionally deletes
// orphaned index records.
func (i *Importer) SyncDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if i.store == nil {
		return nil, ErrStoreRequired
	}

	acc := newSyncAccumulator()

	res := newImportAccumulator()
	for _, doc := range docs {
		if err := i.applyDocument(ctx, doc, opts.ImportOptions, res); err != nil {
			res.addError(err)
		}
	}
	acc.merge(res.result())

	if opts.DeleteOrphaned {
		if err := i.deleteOrphaned(ctx, docs, opts, acc); err != nil {
			acc.addError(err)
		}
	}

	return acc.result(), firstError(acc.errors)
}

func (i *Importer) applyDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, acc *importAccumulator) error {
	if doc == nil {
		return ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	postSlug, err := ResolveSlug(doc)
	if err != nil {
		return err
	}

	checksum := hex.EncodeToString(doc.Checksum)
	status := selectStatus(doc, opts.Status)
	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title == "" {
		title = fallbackTitle(postSlug)
	}

	existing, err := i.store.GetBySlug(ctx, postSlug)
	if err != nil {
		return fmt.Errorf("post importer: index lookup %s: %w", postSlug, err)
	}

	if existing == nil {
		if opts.DryRun {
			acc.created(identity.PostUUID(postSlug))
			return nil
		}

		record, createErr := i.store.Create(ctx, interfaces.PostCreateRequest{
			Slug:        postSlug,
			Title:       title,
			Summary:     optionalString(doc.FrontMatter.Summary),
			Status:      status,
			Section:     doc.Section,
			Tags:        append([]string(nil), doc.FrontMatter.Tags...),
			Author:      doc.FrontMatter.Author,
			Body:        string(doc.Body),
			BodyHTML:    string(doc.BodyHTML),
			Checksum:    checksum,
			SourcePath:  doc.FilePath,
			PublishedAt: publishDate(doc),
		})
		if createErr != nil {
			return fmt.Errorf("post importer: create %s: %w", postSlug, createErr)
		}
		acc.created(record.ID)
		return nil
	}

	if existing.Checksum == checksum && existing.SourcePath == doc.FilePath {
		acc.skip(existing.ID)
		return nil
	}

	if opts.DryRun {
		acc.updated(existing.ID)
		return nil
	}

	updated, updateErr := i.store.Update(ctx, interfaces.PostUpdateRequest{
		ID:          existing.ID,
		Title:       title,
		Summary:     optionalString(doc.FrontMatter.Summary),
		Status:      status,
		Section:     doc.Section,
		Tags:        append([]string(nil), doc.FrontMatter.Tags...),
		Author:      doc.FrontMatter.Author,
		Body:        string(doc.Body),
		BodyHTML:    string(doc.BodyHTML),
		Checksum:    checksum,
		SourcePath:  doc.FilePath,
		PublishedAt: publishDate(doc),
	})
	if updateErr != nil {
		return fmt.Errorf("post importer: update %s: %w", postSlug, updateErr)
	}
	acc.updated(updated.ID)
	return nil
}

func (i *Importer) deleteOrphaned(ctx context.Context, docs []*interfaces.Document, opts interfaces.SyncOptions, acc *syncAccumulator) error {
	existing, err := i.store.List(ctx)
	if err != nil {
		return fmt.Errorf("post importer: list index: %w", err)
	}

	docSlugs := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		s, err := ResolveSlug(doc)
		if err != nil {
			continue
		}
		docSlugs[s] = struct{}{}
	}

	for _, record := range existing {
		if _, ok := docSlugs[record.Slug]; ok {
			continue
		}
		if opts.DryRun {
			acc.deleted++
			continue
		}
		if err := i.store.Delete(ctx, record.ID); err != nil {
			return fmt.Errorf("post importer: delete %s: %w", record.Slug, err)
		}
		acc.deleted++
	}

	return nil
}

// ResolveSlug returns the index slug for a document: the front-matter slug
// when present, otherwise a normalized form of the file name.
func ResolveSlug(doc *interfaces.Document) (string, error) {
	if doc == nil {
		return "", ErrNilDocument
	}
	if explicit := strings.TrimSpace(doc.FrontMatter.Slug); explicit != "" {
		return explicit, nil
	}

	base := path.Base(filepath.ToSlash(doc.FilePath))
	base = strings.TrimSuffix(base, path.Ext(base))
	normalized, err := slug.Normalize(base)
	if err != nil || strings.TrimSpace(normalized) == "" {
		return "", ErrSlugMissing
	}
	return normalized, nil
}

func fallbackTitle(postSlug string) string {
	if postSlug == "" {
		return "Untitled"
	}
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(postSlug))
	for idx, word := range words {
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func selectStatus(doc *interfaces.Document, override string) string {
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		return trimmed
	}
	if doc.FrontMatter.Draft {
		return "draft"
	}
	if trimmed := strings.TrimSpace(doc.FrontMatter.Status); trimmed != "" {
		return trimmed
	}
	return "published"
}

func publishDate(doc *interfaces.Document) *time.Time {
	if doc.FrontMatter.Date.IsZero() {
		return nil
	}
	date := doc.FrontMatter.Date
	return &date
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

type importAccumulator struct {
	createdIDs []uuid.UUID
	updatedIDs []uuid.UUID
	skippedIDs []uuid.UUID
	errors     []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		createdIDs: []uuid.UUID{},
		updatedIDs: []uuid.UUID{},
		skippedIDs: []uuid.UUID{},
		errors:     []error{},
	}
}

func (a *importAccumulator) created(id uuid.UUID) {
	if id != uuid.Nil {
		a.createdIDs = append(a.createdIDs, id)
	}
}

func (a *importAccumulator) updated(id uuid.UUID) {
	if id != uuid.Nil {
		a.updatedIDs = append(a.updatedIDs, id)
	}
}

func (a *importAccumulator) skip(id uuid.UUID) {
	if id != uuid.Nil {
		a.skippedIDs = append(a.skippedIDs, id)
	}
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		CreatedPostIDs: a.createdIDs,
		UpdatedPostIDs: a.updatedIDs,
		SkippedPostIDs: a.skippedIDs,
		Errors:         a.errors,
	}
}

type syncAccumulator struct {
	created int
	updated int
	deleted int
	skipped int
	errors  []error
}

func newSyncAccumulator() *syncAccumulator {
	return &syncAccumulator{
		errors: []error{},
	}
}

func (s *syncAccumulator) merge(res *interfaces.ImportResult) {
	if res == nil {
		return
	}
	s.created += len(res.CreatedPostIDs)
	s.updated += len(res.UpdatedPostIDs)
	s.skipped += len(res.SkippedPostIDs)
	s.errors = append(s.errors, res.Errors...)
}

func (s *syncAccumulator) addError(err error) {
	if err != nil {
		s.errors = append(s.errors, err)
	}
}

func (s *syncAccumulator) result() *interfaces.SyncResult {
	return &interfaces.SyncResult{
		Created: s.created,
		Updated: s.updated,
		Skipped: s.skipped,
		Deleted: s.deleted,
		Errors:  s.errors,
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
