package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=10"`
	Source  string `json:"source" validate:"omitempty,oneof=chat document"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{"valid", sample{Email: "a@b.co", Message: "hi", Source: "chat"}, ""},
		{"missing email", sample{Message: "hi"}, "email is required"},
		{"bad email", sample{Email: "nope", Message: "hi"}, "email must be a valid email"},
		{"too long", sample{Email: "a@b.co", Message: "this is far too long"}, "message must be at most 10 characters"},
		{"bad source", sample{Email: "a@b.co", Message: "hi", Source: "fax"}, "source must be one of: chat document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTimestampsSortChronologically(t *testing.T) {
	early := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(1500 * time.Millisecond)

	a, b := FormatTimestamp(early), FormatTimestamp(late)
	assert.Less(t, a, b)

	parsed, err := ParseTimestamp(b)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(late))
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 7.5, DaysSince(now.Add(-180*time.Hour), now), 1e-9)
}
