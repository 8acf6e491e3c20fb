package strings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "only blanks", input: []string{"", "  "}, expected: []string{}},
		{name: "trims and keeps order", input: []string{" b ", "a", "b"}, expected: []string{"b", "a"}},
		{
			name:     "broker list",
			input:    []string{"kafka-1:9092", " kafka-2:9092", "kafka-1:9092 ", ""},
			expected: []string{"kafka-1:9092", "kafka-2:9092"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeComparableIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, Dedupe([]uuid.UUID{a, b, a, b, a}))
	assert.Nil(t, Dedupe[uuid.UUID](nil))
}
