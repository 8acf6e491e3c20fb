package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "finhabit/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAssignmentID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseTemplateID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseAssignmentID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, AssignmentID(validUUID), id)
		assert.Equal(t, validUUID.String(), id.String())
	})
}

func TestParseID_TrustBoundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE assignments;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssignmentID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures all ID types share parsing rules.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()

	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errUser := ParseUserID(validUUID)
		_, errAssignment := ParseAssignmentID(validUUID)
		_, errTemplate := ParseTemplateID(validUUID)

		require.NoError(t, errUser)
		require.NoError(t, errAssignment)
		require.NoError(t, errTemplate)
	})

	for _, input := range []string{"", "invalid", uuid.Nil.String()} {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errUser := ParseUserID(input)
			_, errAssignment := ParseAssignmentID(input)
			_, errTemplate := ParseTemplateID(input)

			require.Error(t, errUser)
			require.Error(t, errAssignment)
			require.Error(t, errTemplate)
		})
	}
}

func TestIsNil(t *testing.T) {
	assert.True(t, UserID{}.IsNil())
	assert.False(t, NewAssignmentID().IsNil())
	assert.False(t, NewTemplateID().IsNil())
}

func TestIDsMarshalAsCanonicalStrings(t *testing.T) {
	raw := uuid.New()
	payload := struct {
		Owner      UserID       `json:"owner"`
		Assignment AssignmentID `json:"assignment"`
	}{UserID(raw), AssignmentID(raw)}

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"`+raw.String()+`","assignment":"`+raw.String()+`"}`, string(out))
}

func TestIDsUnmarshalFromJSON(t *testing.T) {
	raw := uuid.New()
	var payload struct {
		Template TemplateID `json:"template"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"template":"`+raw.String()+`"}`), &payload))
	assert.Equal(t, TemplateID(raw), payload.Template)

	require.Error(t, json.Unmarshal([]byte(`{"template":"not-a-uuid"}`), &payload))
}
