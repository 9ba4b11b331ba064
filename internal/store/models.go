package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is the content-index record for a single Markdown post file.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID          uuid.UUID  `bun:",pk,type:uuid"                 json:"id"`
	Slug        string     `bun:"slug,notnull,unique"           json:"slug"`
	Title       string     `bun:"title,notnull"                 json:"title"`
	Summary     *string    `bun:"summary"                       json:"summary,omitempty"`
	Status      string     `bun:"status,notnull,default:'draft'" json:"status"`
	Section     string     `bun:"section"                       json:"section,omitempty"`
	Tags        []string   `bun:"tags,type:jsonb"               json:"tags,omitempty"`
	Author      string     `bun:"author"                        json:"author,omitempty"`
	Body        string     `bun:"body,notnull"                  json:"body"`
	BodyHTML    string     `bun:"body_html"                     json:"body_html,omitempty"`
	Checksum    string     `bun:"checksum,notnull"              json:"checksum"`
	SourcePath  string     `bun:"source_path,notnull"           json:"source_path"`
	PublishedAt *time.Time `bun:"published_at,nullzero"         json:"published_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
