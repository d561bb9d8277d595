package file

import (
	"context"
	"testing"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/flowdesk/flowdesk/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTemplate() *models.ProcessTemplate {
	return &models.ProcessTemplate{
		ID:           "tpl-repair",
		Name:         "手机返修流程",
		Description:  "售后返修",
		TargetModule: models.TargetModuleService,
		FormSchema: []models.FormField{
			{ID: "f-phone", Label: "联系电话", Type: models.FieldTypeText, Required: true, Width: models.FieldWidthHalf},
			{ID: "f-faults", Label: "故障类型", Type: models.FieldTypeCheckbox, Options: []string{"屏幕", "电池"}},
		},
		Workflow: []models.WorkflowNode{
			{ID: "start", Name: "开始", Type: models.NodeTypeStart, NextNodes: []string{"work"}},
			{ID: "work", Name: "维修", Type: models.NodeTypeProcess, Role: "TECHNICIAN", NextNodes: []string{"end"}},
			{ID: "end", Name: "完成", Type: models.NodeTypeEnd},
		},
	}
}

func TestTemplateRepository_SaveGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTemplateRepository(t.TempDir())

	template := sampleTemplate()
	require.NoError(t, repo.Save(ctx, template))

	loaded, err := repo.GetByID(ctx, template.ID)
	require.NoError(t, err)

	// Structural equality including nested arrays in original order.
	assert.Equal(t, template.FormSchema, loaded.FormSchema)
	assert.Equal(t, template.Workflow, loaded.Workflow)
	assert.Equal(t, template.Name, loaded.Name)
	assert.Equal(t, 1, loaded.Version)
}

func TestTemplateRepository_ResaveBumpsVersionKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewTemplateRepository(t.TempDir())

	template := sampleTemplate()
	require.NoError(t, repo.Save(ctx, template))

	created := template.CreatedAt

	template.Name = "手机返修流程 v2"
	require.NoError(t, repo.Save(ctx, template))

	loaded, err := repo.GetByID(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Version)
	assert.Equal(t, created, loaded.CreatedAt)
	assert.Equal(t, "手机返修流程 v2", loaded.Name)
}

func TestTemplateRepository_GetMissing(t *testing.T) {
	repo := NewTemplateRepository(t.TempDir())

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.True(t, persistence.IsTemplateNotFound(err))
}

func TestTemplateRepository_ListByModule(t *testing.T) {
	ctx := context.Background()
	repo := NewTemplateRepository(t.TempDir())

	service := sampleTemplate()
	require.NoError(t, repo.Save(ctx, service))

	production := sampleTemplate()
	production.ID = "tpl-line"
	production.TargetModule = models.TargetModuleProduction
	require.NoError(t, repo.Save(ctx, production))

	templates, err := repo.ListByModule(ctx, models.TargetModuleProduction)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "tpl-line", templates[0].ID)
}

func TestOrderRepository_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(t.TempDir())

	order := &models.OrderInstance{
		ID:            "order-1",
		TemplateID:    "tpl-repair",
		TargetModule:  models.TargetModuleService,
		CurrentNodeID: "work",
		Status:        "维修",
		DynamicData:   models.FormData{"f-phone": models.StringValue("138")},
	}

	require.NoError(t, repo.Create(ctx, order))
	assert.Equal(t, 1, order.Version)

	status := "完成"
	nodeID := "end"

	updated, err := repo.Update(ctx, order.ID, 1, persistence.OrderUpdate{
		CurrentNodeID: &nodeID,
		Status:        &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "end", updated.CurrentNodeID)
	assert.Equal(t, "完成", updated.Status)
	assert.Equal(t, 2, updated.Version)

	// Fields absent from the update are untouched.
	assert.Equal(t, "138", updated.DynamicData["f-phone"].Text)
}

func TestOrderRepository_StaleVersionIsRejected(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(t.TempDir())

	order := &models.OrderInstance{ID: "order-1", Status: "维修"}
	require.NoError(t, repo.Create(ctx, order))

	status := "完成"

	_, err := repo.Update(ctx, order.ID, 1, persistence.OrderUpdate{Status: &status})
	require.NoError(t, err)

	// Second update against the version we already consumed.
	_, err = repo.Update(ctx, order.ID, 1, persistence.OrderUpdate{Status: &status})
	assert.True(t, persistence.IsConcurrentModification(err))
}

func TestOrderRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(t.TempDir())

	require.NoError(t, repo.Create(ctx, &models.OrderInstance{
		ID: "o1", TargetModule: models.TargetModuleService, Status: "维修", AssignedTo: "alice",
	}))
	require.NoError(t, repo.Create(ctx, &models.OrderInstance{
		ID: "o2", TargetModule: models.TargetModuleProduction, Status: "录入",
	}))

	orders, err := repo.List(ctx, persistence.OrderFilter{TargetModule: models.TargetModuleService})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)

	orders, err = repo.List(ctx, persistence.OrderFilter{AssignedTo: "bob"})
	require.NoError(t, err)
	assert.Empty(t, orders)
}
