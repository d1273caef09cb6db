package validation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUUID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"canonical lowercase", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"canonical uppercase", "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", true},
		{"mixed case", "6Ba7B810-9dAd-11D1-80b4-00C04fd430c8", true},
		{"empty", "", false},
		{"missing hyphens", "6ba7b8109dad11d180b400c04fd430c8", false},
		{"braced form rejected", "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}", false},
		{"urn form rejected", "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"too short", "6ba7b810-9dad-11d1-80b4", false},
		{"non-hex characters", "6ba7b810-9dad-11d1-80b4-00c04fd430zz", false},
		{"hyphens misplaced", "6ba7b8109-dad-11d1-80b4-00c04fd430c8", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.IsUUID(tt.input))
		})
	}
}

func TestRequireUUID(t *testing.T) {
	assert.Nil(t, validation.RequireUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))

	err := validation.RequireUUID("not-an-id")
	require.NotNil(t, err)
	assert.Equal(t, 400, err.StatusCode)
}

func TestValidateDateRange(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, validation.ValidateDateRange(from, to))
	assert.Nil(t, validation.ValidateDateRange(from, from))

	err := validation.ValidateDateRange(to, from)
	require.NotNil(t, err)
	assert.Equal(t, 400, err.StatusCode)

	require.NotNil(t, validation.ValidateDateRange(time.Time{}, to))
}

func TestBuilderCollectsFieldErrors(t *testing.T) {
	v := validation.NewValidator()
	v.Field("title", "").Required()
	v.Field("detail", strings.Repeat("x", 600)).MaxLength(500)
	v.Field("status", "bogus").OneOf("open", "assigned", "done")

	err := v.Validate()
	require.NotNil(t, err)
	assert.Equal(t, 400, err.StatusCode)
	assert.Contains(t, err.GetDetailedMessage(), "title is required")
	assert.Contains(t, err.GetDetailedMessage(), "detail must not exceed 500 characters")
	assert.Contains(t, err.GetDetailedMessage(), "status must be one of")
}

func TestBuilderPassesValidInput(t *testing.T) {
	v := validation.NewValidator()
	v.Field("title", "pump inspection").Required().MaxLength(200)
	v.Field("status", "open").OneOf("open", "assigned", "done")

	assert.Nil(t, v.Validate())
}

func TestOneOfIgnoresEmpty(t *testing.T) {
	v := validation.NewValidator()
	v.Field("priority", "").OneOf("low", "normal", "high")
	assert.Nil(t, v.Validate())
}
