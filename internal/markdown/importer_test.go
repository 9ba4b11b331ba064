package markdown

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/typeline/go-posts/internal/identity"
	"github.com/typeline/go-posts/pkg/interfaces"
)

func TestImportCreatesPost(t *testing.T) {
	store := newStubStore()
	svc := newImportService(t, store)

	doc, err := svc.Load(context.Background(), "ansible/vault-rotation.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	result, err := svc.Import(context.Background(), doc, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(result.CreatedPostIDs) != 1 {
		t.Fatalf("expected created post, got %#v", result)
	}

	record := store.records["ansible-vault-rotation"]
	if record == nil {
		t.Fatalf("post not indexed")
	}
	if record.Checksum != hex.EncodeToString(doc.Checksum) {
		t.Fatalf("expected checksum stored, got %q", record.Checksum)
	}
	if record.Section != "ansible" {
		t.Fatalf("expected section ansible, got %q", record.Section)
	}
	if record.Status != "published" {
		t.Fatalf("expected status published, got %q", record.Status)
	}
	if record.PublishedAt == nil {
		t.Fatalf("expected publish date from front matter")
	}
}

func TestImportSkipsUnchangedAndUpdatesModified(t *testing.T) {
	store := newStubStore()
	svc := newImportService(t, store)

	doc, err := svc.Load(context.Background(), "ansible/vault-rotation.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := svc.Import(context.Background(), doc, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("initial import: %v", err)
	}

	// Unchanged content should be skipped on re-import.
	again, err := svc.Import(context.Background(), doc, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if len(again.SkippedPostIDs) != 1 || len(again.UpdatedPostIDs) != 0 {
		t.Fatalf("expected skip on unchanged content, got %#v", again)
	}

	clone := *doc
	clone.Body = []byte("# Updated\n\nNew body")
	sum := sha256.Sum256(clone.Body)
	clone.Checksum = sum[:]

	result, err := svc.Import(context.Background(), &clone, interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.UpdatedPostIDs) != 1 {
		t.Fatalf("expected updated post, got %#v", result)
	}

	record := store.records["ansible-vault-rotation"]
	if record.Checksum != hex.EncodeToString(sum[:]) {
		t.Fatalf("checksum not updated")
	}
}

func TestImportDraftFrontMatterWinsOverStatus(t *testing.T) {
	store := newStubStore()
	svc := newImportService(t, store)

	doc, err := svc.Load(context.Background(), "foundry/fuzz-testing.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := svc.Import(context.Background(), doc, interfaces.ImportOptions{}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	record := store.records["fuzz-testing"]
	if record == nil {
		t.Fatalf("post not indexed; slug should fall back to the file name")
	}
	if record.Status != "draft" {
		t.Fatalf("expected draft status, got %q", record.Status)
	}
}

func TestImportDryRunTouchesNothing(t *testing.T) {
	store := newStubStore()
	svc := newImportService(t, store)

	result, err := svc.ImportDirectory(context.Background(), ".", interfaces.ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if len(result.CreatedPostIDs) != 3 {
		t.Fatalf("expected 3 would-be creates, got %#v", result)
	}
	if len(store.records) != 0 {
		t.Fatalf("dry run must not index posts, got %d records", len(store.records))
	}

	// Dry-run create IDs are deterministic so repeated previews agree.
	want := identity.PostUUID("ansible-vault-rotation")
	var found bool
	for _, id := range result.CreatedPostIDs {
		if id == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected deterministic id %s in %v", want, result.CreatedPostIDs)
	}
}

func TestSyncDeletesOrphans(t *testing.T) {
	store := newStubStore()
	svc := newImportService(t, store)

	if _, err := svc.ImportDirectory(context.Background(), ".", interfaces.ImportOptions{}); err != nil {
		t.Fatalf("initial import: %v", err)
	}

	orphanID := uuid.New()
	store.records["retired-post"] = &interfaces.PostRecord{
		ID:   orphanID,
		Slug: "retired-post",
	}

	syncRes, err := svc.Sync(context.Background(), ".", interfaces.SyncOptions{
		DeleteOrphaned: true,
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if _, ok := store.records["retired-post"]; ok {
		t.Fatalf("expected orphan removed")
	}
	if syncRes.Deleted != 1 {
		t.Fatalf("expected 1 deletion, got %d", syncRes.Deleted)
	}
	if syncRes.Skipped != 3 {
		t.Fatalf("expected unchanged posts skipped, got %#v", syncRes)
	}
}

func TestResolveSlugFallsBackToFileName(t *testing.T) {
	doc := &interfaces.Document{FilePath: "foundry/Gas Golfing Tips.md"}

	got, err := ResolveSlug(doc)
	if err != nil {
		t.Fatalf("ResolveSlug: %v", err)
	}
	if got != "gas-golfing-tips" {
		t.Fatalf("expected normalized slug, got %q", got)
	}
}

// Helper constructors --------------------------------------------------------

func newImportService(tb testing.TB, store interfaces.PostStore) *Service {
	tb.Helper()

	svc, err := NewService(Config{
		BasePath:       "testdata/site",
		DefaultSection: "posts",
		Sections:       []string{"ansible", "foundry"},
		Pattern:        "*.md",
		Recursive:      true,
	}, nil, NewImporter(ImporterConfig{Store: store}))
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc
}

type stubStore struct {
	mu      sync.Mutex
	records map[string]*interfaces.PostRecord
}

func newStubStore() *stubStore {
	return &stubStore{records: map[string]*interfaces.PostRecord{}}
}

func (s *stubStore) Create(_ context.Context, req interfaces.PostCreateRequest) (*interfaces.PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := &interfaces.PostRecord{
		ID:          identity.PostUUID(req.Slug),
		Slug:        req.Slug,
		Title:       req.Title,
		Summary:     req.Summary,
		Status:      req.Status,
		Section:     req.Section,
		Tags:        req.Tags,
		Author:      req.Author,
		Body:        req.Body,
		BodyHTML:    req.BodyHTML,
		Checksum:    req.Checksum,
		SourcePath:  req.SourcePath,
		PublishedAt: req.PublishedAt,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	s.records[req.Slug] = record
	return record, nil
}

func (s *stubStore) Update(_ context.Context, req interfaces.PostUpdateRequest) (*interfaces.PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.ID == req.ID {
			record.Title = req.Title
			record.Summary = req.Summary
			record.Status = req.Status
			record.Section = req.Section
			record.Tags = req.Tags
			record.Author = req.Author
			record.Body = req.Body
			record.BodyHTML = req.BodyHTML
			record.Checksum = req.Checksum
			record.SourcePath = req.SourcePath
			record.PublishedAt = req.PublishedAt
			record.UpdatedAt = time.Now().UTC()
			return record, nil
		}
	}
	return nil, nil
}

func (s *stubStore) GetBySlug(_ context.Context, slug string) (*interfaces.PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[slug], nil
}

func (s *stubStore) List(_ context.Context) ([]*interfaces.PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*interfaces.PostRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	return out, nil
}

func (s *stubStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for slug, record := range s.records {
		if record.ID == id {
			delete(s.records, slug)
		}
	}
	return nil
}
