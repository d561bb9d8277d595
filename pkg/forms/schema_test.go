package forms

import (
	"testing"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateSchema(t *testing.T) {
	testCases := []struct {
		name       string
		schema     []models.FormField
		wantIssues int
	}{
		{
			name:       "clean schema",
			schema:     repairSchema(),
			wantIssues: 0,
		},
		{
			name: "duplicate id and label",
			schema: []models.FormField{
				{ID: "f1", Label: "电话", Type: models.FieldTypeText},
				{ID: "f1", Label: "电话", Type: models.FieldTypeText},
			},
			wantIssues: 2,
		},
		{
			name: "unknown type",
			schema: []models.FormField{
				{ID: "f1", Label: "x", Type: models.FieldType("slider")},
			},
			wantIssues: 1,
		},
		{
			name: "select without options",
			schema: []models.FormField{
				{ID: "f1", Label: "x", Type: models.FieldTypeSelect},
			},
			wantIssues: 1,
		},
		{
			name: "dividers may share labels",
			schema: []models.FormField{
				{ID: "d1", Label: "---", Type: models.FieldTypeDivider},
				{ID: "d2", Label: "---", Type: models.FieldTypeDivider},
			},
			wantIssues: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, ValidateSchema(tc.schema), tc.wantIssues)
		})
	}
}
