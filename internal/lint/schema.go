package lint

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// frontMatterSchema is the editorial contract for post metadata. It stays
// permissive on extra keys so authors can attach custom values without
// breaking the lint gate.
const frontMatterSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "slug": {"type": "string", "pattern": "^[a-z0-9]+(?:-[a-z0-9]+)*$"},
    "summary": {"type": "string"},
    "status": {"type": "string", "enum": ["draft", "published", "archived"]},
    "tags": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "author": {"type": "string"},
    "date": {"type": "string", "minLength": 1},
    "draft": {"type": "boolean"}
  },
  "required": ["title", "date"],
  "additionalProperties": true
}`

func compileFrontMatterSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.CompileString("posts://frontmatter.schema.json", frontMatterSchema)
	if err != nil {
		return nil, fmt.Errorf("lint: compile frontmatter schema: %w", err)
	}
	return schema, nil
}

// normalizeForSchema round-trips the raw front matter through JSON so typed
// values (time.Time dates, yaml integers) validate as their wire
// representation.
func normalizeForSchema(raw map[string]any) (any, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("lint: encode frontmatter: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return nil, fmt.Errorf("lint: decode frontmatter: %w", err)
	}
	return decoded, nil
}
