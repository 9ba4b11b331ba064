package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/typeline/go-posts/internal/identity"
	"github.com/typeline/go-posts/internal/logging"
	"github.com/typeline/go-posts/pkg/interfaces"
)

// BunPostStore implements interfaces.PostStore on top of go-repository-bun
// with optional repository caching.
type BunPostStore struct {
	repo   repository.Repository[*Post]
	logger interfaces.Logger
}

// NewBunPostStore constructs an uncached post store.
func NewBunPostStore(db *bun.DB, logger interfaces.Logger) *BunPostStore {
	return NewBunPostStoreWithCache(db, logger, nil, nil)
}

// NewBunPostStoreWithCache constructs a post store with optional caching.
// Both the cache service and key serializer must be provided for the wrap to
// apply; otherwise the base repository is used directly.
func NewBunPostStoreWithCache(db *bun.DB, logger interfaces.Logger, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPostStore {
	base := NewPostRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	if logger == nil {
		logger = logging.NoOp()
	}
	return &BunPostStore{repo: wrapped, logger: logger}
}

var _ interfaces.PostStore = (*BunPostStore)(nil)

// Create validates and indexes a new post record. IDs are derived
// deterministically from the slug so repeated imports of the same content
// repository converge on the same identifiers.
func (s *BunPostStore) Create(ctx context.Context, req interfaces.PostCreateRequest) (*interfaces.PostRecord, error) {
	postSlug := strings.TrimSpace(req.Slug)
	if postSlug == "" {
		return nil, ErrSlugRequired
	}
	if !slug.IsValid(postSlug) {
		return nil, fmt.Errorf("%w: %s", ErrSlugInvalid, postSlug)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}

	if existing, err := s.GetBySlug(ctx, postSlug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrSlugExists, postSlug)
	}

	now := time.Now().UTC()
	record := &Post{
		ID:          identity.PostUUID(postSlug),
		Slug:        postSlug,
		Title:       strings.TrimSpace(req.Title),
		Summary:     req.Summary,
		Status:      normalizeStatus(req.Status),
		Section:     req.Section,
		Tags:        append([]string(nil), req.Tags...),
		Author:      strings.TrimSpace(req.Author),
		Body:        req.Body,
		BodyHTML:    req.BodyHTML,
		Checksum:    req.Checksum,
		SourcePath:  req.SourcePath,
		PublishedAt: req.PublishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("post store: create %s: %w", postSlug, err)
	}

	logging.WithPostContext(s.logger, created.SourcePath, created.Section, "create").
		Debug("post.store.created", "slug", created.Slug)

	return toRecord(created), nil
}

// Update rewrites the mutable fields of an indexed post.
func (s *BunPostStore) Update(ctx context.Context, req interfaces.PostUpdateRequest) (*interfaces.PostRecord, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}

	existing, err := s.repo.GetByID(ctx, req.ID.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", req.ID.String())
	}

	existing.Title = strings.TrimSpace(req.Title)
	existing.Summary = req.Summary
	existing.Status = normalizeStatus(req.Status)
	existing.Section = req.Section
	existing.Tags = append([]string(nil), req.Tags...)
	existing.Author = strings.TrimSpace(req.Author)
	existing.Body = req.Body
	existing.BodyHTML = req.BodyHTML
	existing.Checksum = req.Checksum
	existing.SourcePath = req.SourcePath
	existing.PublishedAt = req.PublishedAt
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("post store: update %s: %w", existing.Slug, err)
	}

	logging.WithPostContext(s.logger, updated.SourcePath, updated.Section, "update").
		Debug("post.store.updated", "slug", updated.Slug)

	return toRecord(updated), nil
}

// GetBySlug loads a post by slug, returning nil when no record matches.
func (s *BunPostStore) GetBySlug(ctx context.Context, slugValue string) (*interfaces.PostRecord, error) {
	result, err := s.repo.GetByIdentifier(ctx, slugValue)
	if err != nil {
		mapped := mapRepositoryError(err, "post", slugValue)
		var notFound *NotFoundError
		if errors.As(mapped, &notFound) {
			return nil, nil
		}
		return nil, mapped
	}
	return toRecord(result), nil
}

// List returns every indexed post.
func (s *BunPostStore) List(ctx context.Context) ([]*interfaces.PostRecord, error) {
	records, _, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("post store: list: %w", err)
	}
	out := make([]*interfaces.PostRecord, 0, len(records))
	for _, record := range records {
		out = append(out, toRecord(record))
	}
	return out, nil
}

// Delete removes a post from the index.
func (s *BunPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, &Post{ID: id}); err != nil {
		return mapRepositoryError(err, "post", id.String())
	}
	return nil
}

func toRecord(post *Post) *interfaces.PostRecord {
	if post == nil {
		return nil
	}
	return &interfaces.PostRecord{
		ID:          post.ID,
		Slug:        post.Slug,
		Title:       post.Title,
		Summary:     post.Summary,
		Status:      post.Status,
		Section:     post.Section,
		Tags:        append([]string(nil), post.Tags...),
		Author:      post.Author,
		Body:        post.Body,
		BodyHTML:    post.BodyHTML,
		Checksum:    post.Checksum,
		SourcePath:  post.SourcePath,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

func normalizeStatus(status string) string {
	trimmed := strings.ToLower(strings.TrimSpace(status))
	if trimmed == "" {
		return "draft"
	}
	return trimmed
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
