package web

import "github.com/gofiber/fiber/v3"

// Register mounts every API route on app.
func Register(app *fiber.App, handlers *APIHandlers) {
	templates := app.Group("/templates")
	templates.Get("/", handlers.GetTemplates)
	templates.Post("/", handlers.SaveTemplate)
	templates.Post("/import", handlers.ImportTemplate)
	templates.Get("/:id", handlers.GetTemplate)
	templates.Patch("/:id", handlers.UpdateTemplate)
	templates.Get("/:id/validate", handlers.ValidateTemplate)
	templates.Post("/:id/form/validate", handlers.ValidateTemplateForm)
	templates.Get("/:id/export", handlers.ExportTemplate)
	templates.Get("/:id/nodes/:nodeId/targets", handlers.GetTemplateNodeTargets)

	orders := app.Group("/orders")
	orders.Get("/", handlers.GetOrders)
	orders.Post("/", handlers.CreateOrder)
	orders.Get("/:id", handlers.GetOrder)
	orders.Get("/:id/targets", handlers.GetOrderTargets)
	orders.Post("/:id/transition", handlers.TransitionOrder)
	orders.Get("/:id/form", handlers.GetOrderForm)
	orders.Put("/:id/form", handlers.SubmitOrderForm)
	orders.Post("/:id/form/validate", handlers.ValidateOrderForm)
	orders.Post("/:id/form/:fieldId/file", handlers.UploadOrderFile)
	orders.Put("/:id/assignee", handlers.ReassignOrder)

	app.Get("/menu", handlers.GetMenu)
	app.Get("/health", handlers.HealthCheck)
}
