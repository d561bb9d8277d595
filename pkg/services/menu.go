package services

import "github.com/flowdesk/flowdesk/pkg/models"

// MenuEntry is one template surfaced on a product module's menu.
type MenuEntry struct {
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
}

// MenuModel is the navigation model computed for one actor: which templated
// processes each module shows, and whether the designer surface is visible.
type MenuModel struct {
	Service    []MenuEntry `json:"service"`
	Production []MenuEntry `json:"production"`
	Designer   bool        `json:"designer"`
}

// VisibleResources computes the menu for an actor holding the given
// permissions. Pure function: same permissions and templates, same menu.
// The designer surface requires MANAGE_SYSTEM or the admin capability.
func VisibleResources(actorPermissions []string, templates []*models.ProcessTemplate) MenuModel {
	menu := MenuModel{
		Service:    []MenuEntry{},
		Production: []MenuEntry{},
	}

	for _, permission := range actorPermissions {
		if permission == models.CapabilityManageSystem || permission == models.RoleAdmin {
			menu.Designer = true

			break
		}
	}

	for _, template := range templates {
		entry := MenuEntry{TemplateID: template.ID, Name: template.Name}

		switch template.TargetModule {
		case models.TargetModuleService:
			menu.Service = append(menu.Service, entry)
		case models.TargetModuleProduction:
			menu.Production = append(menu.Production, entry)
		}
	}

	return menu
}
