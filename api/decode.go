package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"
	"unicode"
)

// timestampLayouts are the ISO-8601 shapes the Readwise APIs emit
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// Decode unmarshals data into v, reporting failures as *DecodeError.
func Decode(endpoint string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return decodeError(endpoint, err)
	}
	return nil
}

// NewDecodeError tags a conversion failure with endpoint. An existing
// *DecodeError keeps its field.
func NewDecodeError(endpoint string, err error) *DecodeError {
	return decodeError(endpoint, err)
}

// decodeError normalizes err into a *DecodeError for endpoint
func decodeError(endpoint string, err error) *DecodeError {
	var de *DecodeError
	if errors.As(err, &de) {
		if de.Endpoint == "" {
			de.Endpoint = endpoint
		}
		return de
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{Endpoint: endpoint, Field: jsonPath(typeErr.Field), Err: err}
	}

	return &DecodeError{Endpoint: endpoint, Err: err}
}

// jsonPath drops the embedded struct names encoding/json puts into a field
// path. JSON keys on these APIs are lowercase.
func jsonPath(field string) string {
	parts := strings.Split(field, ".")
	kept := parts[:0:0]
	for _, part := range parts {
		if part != "" && unicode.IsUpper(rune(part[0])) {
			continue
		}
		kept = append(kept, part)
	}
	if len(kept) == 0 {
		return field
	}
	return strings.Join(kept, ".")
}

// ParseTimestamp converts an optional ISO-8601 string. A nil or empty value
// yields nil without error.
func ParseTimestamp(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return nil, nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}

	return nil, &DecodeError{Field: field, Err: fmt.Errorf("invalid timestamp %q", s)}
}

// ParseRequiredTimestamp is ParseTimestamp for fields the server always sets
func ParseRequiredTimestamp(field string, value *string) (time.Time, error) {
	t, err := ParseTimestamp(field, value)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, &DecodeError{Field: field, Err: errors.New("missing required timestamp")}
	}
	return *t, nil
}

// FormatTimestamp renders t the way the APIs expect it in queries and bodies
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Items flattens the item lists of a page sequence and converts each raw
// item. The first failure ends the sequence.
func Items[T any](endpoint string, pages iter.Seq2[*Page, error], convert func(json.RawMessage) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for page, err := range pages {
			if err != nil {
				yield(zero, err)
				return
			}

			raw, err := page.Items()
			if err != nil {
				yield(zero, decodeError(endpoint, err))
				return
			}

			for _, item := range raw {
				v, err := convert(item)
				if err != nil {
					yield(zero, decodeError(endpoint, err))
					return
				}
				if !yield(v, nil) {
					return
				}
			}
		}
	}
}

// Collect drains seq into a slice
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
