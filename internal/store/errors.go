package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSlugRequired  = errors.New("post store: slug is required")
	ErrSlugInvalid   = errors.New("post store: slug contains invalid characters")
	ErrTitleRequired = errors.New("post store: title is required")
	ErrIDRequired    = errors.New("post store: post id required")
	ErrSlugExists    = errors.New("post store: slug already exists")
)

// NotFoundError reports a missing index record by resource and lookup key.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "post store: not found"
	}
	key := strings.TrimSpace(e.Key)
	if key == "" {
		return fmt.Sprintf("post store: %s not found", e.Resource)
	}
	return fmt.Sprintf("post store: %s %q not found", e.Resource, key)
}
