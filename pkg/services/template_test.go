package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/flowdesk/flowdesk/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTemplateService(t *testing.T) *Template {
	t.Helper()

	return NewTemplate(file.NewPersistence(t.TempDir()), slog.Default())
}

func TestTemplateSaveAssignsID(t *testing.T) {
	service := newTemplateService(t)
	ctx := context.Background()

	template := repairTemplate()
	require.Empty(t, template.ID)

	report, err := service.Save(ctx, template)
	require.NoError(t, err)
	assert.True(t, report.Clean())
	assert.NotEmpty(t, template.ID)

	fetched, err := service.FetchByID(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Repair Process", fetched.Name)
	assert.Equal(t, 1, fetched.Version)
}

func TestTemplateSaveToleratesBrokenDraft(t *testing.T) {
	service := newTemplateService(t)
	ctx := context.Background()

	// Authoring may persist transient invalid states; the report carries
	// the findings without blocking the save.
	draft := &models.ProcessTemplate{
		Name:         "Half-edited",
		TargetModule: models.TargetModuleProduction,
		Workflow: []models.WorkflowNode{
			{ID: "start", Name: "Start", Type: models.NodeTypeStart, NextNodes: []string{"missing"}},
		},
	}

	report, err := service.Save(ctx, draft)
	require.NoError(t, err)
	assert.False(t, report.Clean())
	assert.NotEmpty(t, report.GraphIssues)

	fetched, err := service.FetchByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Half-edited", fetched.Name)
}

func TestTemplateListByModule(t *testing.T) {
	service := newTemplateService(t)
	ctx := context.Background()

	repair := repairTemplate()
	_, err := service.Save(ctx, repair)
	require.NoError(t, err)

	production := repairTemplate()
	production.Name = "Line Report"
	production.TargetModule = models.TargetModuleProduction
	_, err = service.Save(ctx, production)
	require.NoError(t, err)

	serviceOnly, err := service.ListByModule(ctx, models.TargetModuleService)
	require.NoError(t, err)
	require.Len(t, serviceOnly, 1)
	assert.Equal(t, "Repair Process", serviceOnly[0].Name)
}

func TestTemplateValidateReportsFindings(t *testing.T) {
	service := newTemplateService(t)
	ctx := context.Background()

	template := repairTemplate()
	template.Workflow = append(template.Workflow, models.WorkflowNode{
		ID: "orphan", Name: "Orphan", Type: models.NodeTypeProcess,
	})
	template.FormSchema = append(template.FormSchema, models.FormField{
		ID: "choice", Label: "Choice", Type: models.FieldTypeSelect,
	})

	_, err := service.Save(ctx, template)
	require.NoError(t, err)

	report, err := service.Validate(ctx, template.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, report.GraphIssues)
	assert.NotEmpty(t, report.SchemaIssues)
}

func TestTemplateExportImportRoundTrip(t *testing.T) {
	service := newTemplateService(t)
	ctx := context.Background()

	template := repairTemplate()
	_, err := service.Save(ctx, template)
	require.NoError(t, err)

	document, err := service.Export(ctx, template.ID)
	require.NoError(t, err)

	var decoded map[string]any

	require.NoError(t, json.Unmarshal(document, &decoded))
	assert.Equal(t, "Repair Process", decoded["name"])

	// The exported shape must be accepted back verbatim: a field width
	// is a named size, and a terminal node carries no next_nodes.
	assert.Contains(t, string(document), `"width": "half"`)
	assert.Contains(t, string(document), `"next_nodes": null`)

	imported, report, err := service.Import(ctx, document)
	require.NoError(t, err)
	assert.True(t, report.Clean())
	assert.Equal(t, template.ID, imported.ID)

	// Re-import of an existing ID is an upsert and bumps the version.
	fetched, err := service.FetchByID(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.Version)
}

func TestTemplateImportRejectsBadDocument(t *testing.T) {
	service := newTemplateService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		document string
	}{
		{"not json", "not even json"},
		{"missing fields", `{"name": "x"}`},
		{"bad module", `{"name": "x", "target_module": "warehouse", "workflow": [], "form_schema": []}`},
		{"bad node type", `{"name": "x", "target_module": "service", "form_schema": [], "workflow": [{"id": "a", "name": "A", "type": "loop"}]}`},
		{"bad width", `{"name": "x", "target_module": "service", "workflow": [], "form_schema": [{"id": "f", "label": "F", "type": "text", "width": 2}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := service.Import(ctx, []byte(tc.document))
			assert.ErrorIs(t, err, ErrInvalidTemplateDocument)
		})
	}
}
