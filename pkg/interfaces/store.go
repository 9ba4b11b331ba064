package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PostRecord is the content-index projection of a post file. It is the
// persisted counterpart of Document and stays deliberately flat so storage
// backends can map it without translation layers.
type PostRecord struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Summary     *string
	Status      string
	Section     string
	Tags        []string
	Author      string
	Body        string
	BodyHTML    string
	Checksum    string
	SourcePath  string
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostCreateRequest carries the fields required to index a new post.
type PostCreateRequest struct {
	Slug        string
	Title       string
	Summary     *string
	Status      string
	Section     string
	Tags        []string
	Author      string
	Body        string
	BodyHTML    string
	Checksum    string
	SourcePath  string
	PublishedAt *time.Time
}

// PostUpdateRequest mutates an existing index record in place.
type PostUpdateRequest struct {
	ID          uuid.UUID
	Title       string
	Summary     *string
	Status      string
	Section     string
	Tags        []string
	Author      string
	Body        string
	BodyHTML    string
	Checksum    string
	SourcePath  string
	PublishedAt *time.Time
}

// PostStore persists and retrieves indexed posts. GetBySlug returns nil
// without error when no record matches so import flows can branch on
// existence without unwrapping.
type PostStore interface {
	Create(ctx context.Context, req PostCreateRequest) (*PostRecord, error)
	Update(ctx context.Context, req PostUpdateRequest) (*PostRecord, error)
	GetBySlug(ctx context.Context, slug string) (*PostRecord, error)
	List(ctx context.Context) ([]*PostRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
