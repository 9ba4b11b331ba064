package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/typeline/go-posts/internal/identity"
	"github.com/typeline/go-posts/pkg/interfaces"
)

func TestBunPostStore_CreateGetUpdateDelete(t *testing.T) {
	db := newTestDB(t)
	store := NewBunPostStore(db, nil)
	ctx := context.Background()

	published := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
	summary := "A rekey workflow that keeps playbooks runnable."
	created, err := store.Create(ctx, interfaces.PostCreateRequest{
		Slug:        "ansible-vault-rotation",
		Title:       "Rotating Ansible Vault Passwords",
		Summary:     &summary,
		Status:      "published",
		Section:     "ansible",
		Tags:        []string{"ansible", "vault"},
		Author:      "ops-team",
		Body:        "Rotating a vault password...",
		BodyHTML:    "<p>Rotating a vault password...</p>",
		Checksum:    "abc123",
		SourcePath:  "ansible/vault-rotation.md",
		PublishedAt: &published,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != identity.PostUUID("ansible-vault-rotation") {
		t.Fatalf("expected deterministic id, got %s", created.ID)
	}

	fetched, err := store.GetBySlug(ctx, "ansible-vault-rotation")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if fetched == nil {
		t.Fatalf("expected record")
	}
	if fetched.Section != "ansible" || len(fetched.Tags) != 2 {
		t.Fatalf("unexpected record: %+v", fetched)
	}
	if fetched.PublishedAt == nil || !fetched.PublishedAt.Equal(published) {
		t.Fatalf("expected publish date preserved, got %v", fetched.PublishedAt)
	}

	updated, err := store.Update(ctx, interfaces.PostUpdateRequest{
		ID:         created.ID,
		Title:      "Rotating Ansible Vault Passwords Without Downtime",
		Status:     "published",
		Section:    "ansible",
		Tags:       []string{"ansible"},
		Body:       "Updated body",
		Checksum:   "def456",
		SourcePath: "ansible/vault-rotation.md",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Checksum != "def456" {
		t.Fatalf("expected checksum updated, got %q", updated.Checksum)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	missing, err := store.GetBySlug(ctx, "ansible-vault-rotation")
	if err != nil {
		t.Fatalf("GetBySlug after delete: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil after delete, got %+v", missing)
	}
}

func TestBunPostStore_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	store := NewBunPostStore(db, nil)
	ctx := context.Background()

	if _, err := store.Create(ctx, interfaces.PostCreateRequest{Title: "No Slug"}); !errors.Is(err, ErrSlugRequired) {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
	if _, err := store.Create(ctx, interfaces.PostCreateRequest{Slug: "Bad Slug!", Title: "x"}); !errors.Is(err, ErrSlugInvalid) {
		t.Fatalf("expected ErrSlugInvalid, got %v", err)
	}
	if _, err := store.Create(ctx, interfaces.PostCreateRequest{Slug: "no-title"}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}

	if _, err := store.Create(ctx, interfaces.PostCreateRequest{Slug: "dup", Title: "First"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, interfaces.PostCreateRequest{Slug: "dup", Title: "Second"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestBunPostStore_StatusDefaultsToDraft(t *testing.T) {
	db := newTestDB(t)
	store := NewBunPostStore(db, nil)

	created, err := store.Create(context.Background(), interfaces.PostCreateRequest{
		Slug:  "wip-notes",
		Title: "WIP Notes",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != "draft" {
		t.Fatalf("expected draft default, got %q", created.Status)
	}
}

func TestBunPostStore_UpdateMissingRecord(t *testing.T) {
	db := newTestDB(t)
	store := NewBunPostStore(db, nil)

	_, err := store.Update(context.Background(), interfaces.PostUpdateRequest{
		ID:    identity.PostUUID("ghost"),
		Title: "Ghost",
	})
	if err == nil {
		t.Fatalf("expected error for missing record")
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", "file:posts_store_test?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = sqldb.Close()
	})

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	// The shared in-memory database survives across tests in this package.
	if _, err := db.NewDelete().Model((*Post)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		t.Fatalf("clear posts: %v", err)
	}
	return db
}
