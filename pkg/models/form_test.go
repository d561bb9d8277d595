package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValue_JSONShapes(t *testing.T) {
	testCases := []struct {
		name     string
		value    FieldValue
		expected string
	}{
		{
			name:     "scalar value encodes as plain string",
			value:    StringValue("138-0000-0000"),
			expected: `"138-0000-0000"`,
		},
		{
			name:     "multi value encodes as array",
			value:    MultiValue("screen", "battery"),
			expected: `["screen","battery"]`,
		},
		{
			name:     "empty multi value encodes as empty array, not null",
			value:    MultiValue(),
			expected: `[]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.value)
			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(data))
		})
	}
}

func TestFieldValue_UnmarshalRoundTrip(t *testing.T) {
	var scalar FieldValue

	require.NoError(t, json.Unmarshal([]byte(`"hello"`), &scalar))
	assert.False(t, scalar.Multi)
	assert.Equal(t, "hello", scalar.Text)

	var multi FieldValue

	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &multi))
	assert.True(t, multi.Multi)
	assert.Equal(t, []string{"a", "b"}, multi.Items)

	var bad FieldValue

	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestFieldValue_IsEmpty(t *testing.T) {
	assert.True(t, StringValue("").IsEmpty())
	assert.True(t, MultiValue().IsEmpty())
	assert.False(t, StringValue("x").IsEmpty())
	assert.False(t, MultiValue("x").IsEmpty())
}

func TestFormField_HasValue(t *testing.T) {
	divider := FormField{ID: "d1", Label: "---", Type: FieldTypeDivider}
	note := FormField{ID: "n1", Label: "hint", Type: FieldTypeNote}
	text := FormField{ID: "t1", Label: "Phone", Type: FieldTypeText}

	assert.False(t, divider.HasValue())
	assert.False(t, note.HasValue())
	assert.True(t, text.HasValue())
}

func TestFormData_CloneIsIndependent(t *testing.T) {
	original := FormData{
		"f1": StringValue("a"),
		"f2": MultiValue("x", "y"),
	}

	clone := original.Clone()
	clone["f1"] = StringValue("changed")
	clone["f2"].Items[0] = "mutated"

	assert.Equal(t, "a", original["f1"].Text)
	assert.Equal(t, "x", original["f2"].Items[0])
}

func TestMigrateLabelKeys(t *testing.T) {
	schema := []FormField{
		{ID: "f-phone", Label: "联系电话", Type: FieldTypeText},
		{ID: "f-parts", Label: "更换部件", Type: FieldTypeCheckbox},
	}

	legacy := FormData{
		"联系电话": StringValue("138-0000-0000"),
		"f-parts": MultiValue("screen"),
		"orphan": StringValue("kept as-is"),
	}

	migrated := MigrateLabelKeys(schema, legacy)

	assert.Equal(t, "138-0000-0000", migrated["f-phone"].Text)
	assert.Equal(t, []string{"screen"}, migrated["f-parts"].Items)
	assert.Equal(t, "kept as-is", migrated["orphan"].Text)
	assert.NotContains(t, migrated, "联系电话")
}
