package reader

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/s0up4200/readwise-cli/api"
)

type rawDocument struct {
	Document
	Tags          json.RawMessage `json:"tags"`
	CreatedAt     *string         `json:"created_at"`
	UpdatedAt     *string         `json:"updated_at"`
	FirstOpenedAt *string         `json:"first_opened_at"`
	LastOpenedAt  *string         `json:"last_opened_at"`
	SavedAt       *string         `json:"saved_at"`
	LastMovedAt   *string         `json:"last_moved_at"`
}

func decodeDocument(data json.RawMessage) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, err
	}

	doc := raw.Document
	var err error
	if doc.CreatedAt, err = api.ParseRequiredTimestamp("created_at", raw.CreatedAt); err != nil {
		return Document{}, err
	}
	if doc.UpdatedAt, err = api.ParseRequiredTimestamp("updated_at", raw.UpdatedAt); err != nil {
		return Document{}, err
	}

	optional := []struct {
		field string
		value *string
		dst   **time.Time
	}{
		{"first_opened_at", raw.FirstOpenedAt, &doc.FirstOpenedAt},
		{"last_opened_at", raw.LastOpenedAt, &doc.LastOpenedAt},
		{"saved_at", raw.SavedAt, &doc.SavedAt},
		{"last_moved_at", raw.LastMovedAt, &doc.LastMovedAt},
	}
	for _, o := range optional {
		if *o.dst, err = api.ParseTimestamp(o.field, o.value); err != nil {
			return Document{}, err
		}
	}

	if doc.Tags, err = decodeTags(raw.Tags); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// decodeTags accepts the tag object keyed by name. Null and an empty list
// both mean no tags.
func decodeTags(raw json.RawMessage) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("[]")) {
		return map[string]any{}, nil
	}

	tags := map[string]any{}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, &api.DecodeError{Field: "tags", Err: err}
	}
	return tags, nil
}
