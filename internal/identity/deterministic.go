package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID derives the index identifier for a post slug. Slugs are unique
// across the content repository, so the slug alone keys the record.
func PostUUID(slug string) uuid.UUID {
	return UUID("go-posts:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

// SectionUUID derives a stable identifier for a content section.
func SectionUUID(section string) uuid.UUID {
	return UUID("go-posts:section:" + strings.ToLower(strings.TrimSpace(section)))
}
