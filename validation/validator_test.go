package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Text      string `json:"text" validate:"required"`
	SourceURL string `json:"source_url,omitempty" validate:"omitempty,url"`
	Location  string `json:"location" validate:"omitempty,oneof=new later archive"`
}

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		input      sample
		wantFields map[string]string
	}{
		{
			name:  "valid",
			input: sample{Text: "hello", SourceURL: "https://example.com", Location: "later"},
		},
		{
			name:       "missing text",
			input:      sample{},
			wantFields: map[string]string{"text": "is required"},
		},
		{
			name:  "bad url and location",
			input: sample{Text: "x", SourceURL: "not a url", Location: "trash"},
			wantFields: map[string]string{
				"source_url": "must be a valid URL",
				"location":   "must be one of [new later archive]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}

			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantFields, verr.Fields)
		})
	}
}

func TestErrorMessageIsSorted(t *testing.T) {
	err := &Error{Fields: map[string]string{"url": "is required", "location": "must be one of [new]"}}
	assert.Equal(t, "invalid request: location must be one of [new], url is required", err.Error())
}
