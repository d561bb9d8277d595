package services

import (
	"testing"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestVisibleResources(t *testing.T) {
	templates := []*models.ProcessTemplate{
		{ID: "t1", Name: "Repair", TargetModule: models.TargetModuleService},
		{ID: "t2", Name: "Line Report", TargetModule: models.TargetModuleProduction},
		{ID: "t3", Name: "Warranty", TargetModule: models.TargetModuleService},
	}

	tests := []struct {
		name        string
		permissions []string
		designer    bool
	}{
		{"no permissions", nil, false},
		{"plain role", []string{"MANAGER"}, false},
		{"manage system", []string{"MANAGER", models.CapabilityManageSystem}, true},
		{"admin", []string{models.RoleAdmin}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			menu := VisibleResources(tc.permissions, templates)

			assert.Equal(t, tc.designer, menu.Designer)
			assert.Len(t, menu.Service, 2)
			assert.Len(t, menu.Production, 1)
			assert.Equal(t, "Repair", menu.Service[0].Name)
			assert.Equal(t, "Line Report", menu.Production[0].Name)
		})
	}
}

func TestVisibleResourcesEmptyTemplates(t *testing.T) {
	menu := VisibleResources([]string{"MANAGER"}, nil)

	// Empty slices, never nil: the menu serializes as [] for clients.
	assert.NotNil(t, menu.Service)
	assert.NotNil(t, menu.Production)
	assert.Empty(t, menu.Service)
	assert.Empty(t, menu.Production)
}
