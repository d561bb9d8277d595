package web

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flowdesk/flowdesk/pkg/forms"
	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/flowdesk/flowdesk/pkg/persistence"
	"github.com/flowdesk/flowdesk/pkg/services"
	"github.com/flowdesk/flowdesk/pkg/workflow"
	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	templateService *services.Template
	orderService    *services.Order
	persistence     persistence.Persistence
	validator       *validator.Validate
}

func NewAPIHandlers(
	templateService *services.Template,
	orderService *services.Order,
	p persistence.Persistence,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		templateService: templateService,
		orderService:    orderService,
		persistence:     p,
		validator:       validator,
	}
}

func actorRole(c fiber.Ctx) string {
	return c.Get(ActorRoleHeader)
}

func actorPermissions(c fiber.Ctx) []string {
	raw := c.Get(ActorPermissionsHeader)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	permissions := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			permissions = append(permissions, trimmed)
		}
	}

	return permissions
}

func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	var (
		templates []*models.ProcessTemplate
		err       error
	)

	if module := c.Query("module"); module != "" {
		templates, err = h.templateService.ListByModule(c.Context(), models.TargetModule(module))
	} else {
		templates, err = h.templateService.List(c.Context())
	}

	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"templates": templates})
}

func (h *APIHandlers) GetTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	template, err := h.templateService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(template)
}

func (h *APIHandlers) SaveTemplate(c fiber.Ctx) error {
	var req SaveTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	template := &models.ProcessTemplate{
		ID:           req.ID,
		Name:         req.Name,
		Description:  req.Description,
		TargetModule: models.TargetModule(req.TargetModule),
		FormSchema:   req.FormSchema,
		Workflow:     req.Workflow,
	}

	report, err := h.templateService.Save(c.Context(), template)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"template": template,
		"report":   report,
	})
}

// UpdateTemplate re-saves an existing template in place. Same semantics as
// SaveTemplate with the ID fixed by the path.
func (h *APIHandlers) UpdateTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	if _, err := h.templateService.FetchByID(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	var req SaveTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	template := &models.ProcessTemplate{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		TargetModule: models.TargetModule(req.TargetModule),
		FormSchema:   req.FormSchema,
		Workflow:     req.Workflow,
	}

	report, err := h.templateService.Save(c.Context(), template)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"template": template,
		"report":   report,
	})
}

func (h *APIHandlers) ValidateTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	report, err := h.templateService.Validate(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(report)
}

// ValidateTemplateForm checks a prospective data bag against a template's
// form schema before any order exists, returning per-field messages.
func (h *APIHandlers) ValidateTemplateForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	var data models.FormData
	if err := c.Bind().JSON(&data); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	template, err := h.templateService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	if fieldErrs := forms.Validate(template.FormSchema, data); len(fieldErrs) > 0 {
		return handleServiceError(c, &services.FieldValidationError{Fields: fieldErrs})
	}

	return c.JSON(fiber.Map{"valid": true})
}

func (h *APIHandlers) ExportTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	document, err := h.templateService.Export(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Send(document)
}

func (h *APIHandlers) ImportTemplate(c fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return badRequest(c, "Template document is required")
	}

	template, report, err := h.templateService.Import(c.Context(), body)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"template": template,
		"report":   report,
	})
}

// GetTemplateNodeTargets previews the legal targets from one node of a
// template, for the designer surface.
func (h *APIHandlers) GetTemplateNodeTargets(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	if id == "" || nodeID == "" {
		return badRequest(c, "Template ID and node ID are required")
	}

	template, err := h.templateService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	node, err := workflow.FindNode(template.Workflow, nodeID)
	if err != nil {
		return notFound(c, "Node not found in workflow")
	}

	targets, err := workflow.LegalTargets(template.Workflow, node)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"targets": targets})
}

func (h *APIHandlers) GetOrders(c fiber.Ctx) error {
	filter := persistence.OrderFilter{
		TargetModule: models.TargetModule(c.Query("module")),
		Status:       c.Query("status"),
		AssignedTo:   c.Query("assigned_to"),
		TemplateID:   c.Query("template_id"),
	}

	orders, err := h.orderService.List(c.Context(), filter)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"orders": orders})
}

func (h *APIHandlers) GetOrder(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Order ID is required")
	}

	order, err := h.orderService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(order)
}

func (h *APIHandlers) CreateOrder(c fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	order, err := h.orderService.Create(c.Context(), services.CreateRequest{
		TemplateID: req.TemplateID,
		FormData:   req.FormData,
		AssignedTo: req.AssignedTo,
		CreatedBy:  req.CreatedBy,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *APIHandlers) GetOrderTargets(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Order ID is required")
	}

	targets, err := h.orderService.LegalTargets(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"targets": targets})
}

func (h *APIHandlers) TransitionOrder(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Order ID is required")
	}

	var req TransitionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	order, err := h.orderService.Transition(c.Context(), id, req.TargetNodeID, actorRole(c))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(order)
}

func (h *APIHandlers) GetOrderForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Order ID is required")
	}

	views, err := h.orderService.RenderForm(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"fields": views})
}

func (h *APIHandlers) SubmitOrderForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Order ID is required")
	}

	var req SubmitFormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if len(req.Values) == 0 {
		return badRequest(c, "At least one field value is required")
	}

	order, err := h.orderService.SubmitFormData(c.Context(), id, req.Values)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(order)
}

// ValidateOrderForm dry-runs requiredness validation for a prospective data
// bag without persisting it.
func (h *APIHandlers) ValidateOrderForm(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Order ID is required")
	}

	var data models.FormData
	if err := c.Bind().JSON(&data); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err := h.orderService.ValidateFormData(c.Context(), id, data)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"valid": true})
}

func (h *APIHandlers) UploadOrderFile(c fiber.Ctx) error {
	id := c.Params("id")
	fieldID := c.Params("fieldId")

	if id == "" || fieldID == "" {
		return badRequest(c, "Order ID and field ID are required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "Multipart field 'file' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Uploaded file is not readable")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return internalError(c, err)
	}

	order, err := h.orderService.AttachFile(c.Context(), id, fieldID,
		fileHeader.Filename, content, fileHeader.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(order)
}

func (h *APIHandlers) ReassignOrder(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Order ID is required")
	}

	var req ReassignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	order, err := h.orderService.Reassign(c.Context(), id, req.Assignee)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(order)
}

// GetMenu computes which process entry points the actor sees on each
// product module, plus designer visibility.
func (h *APIHandlers) GetMenu(c fiber.Ctx) error {
	templates, err := h.templateService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(services.VisibleResources(actorPermissions(c), templates))
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	err := h.persistence.HealthCheck(c.Context())

	status := "healthy"
	message := "Flowdesk API is healthy"
	httpStatus := http.StatusOK

	if err != nil {
		status = "unhealthy"
		message = "Flowdesk API is unhealthy: " + err.Error()
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().UTC(),
	})
}
