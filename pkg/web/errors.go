package web

import (
	"errors"

	"github.com/flowdesk/flowdesk/pkg/forms"
	"github.com/flowdesk/flowdesk/pkg/persistence"
	"github.com/flowdesk/flowdesk/pkg/services"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// fieldValidationProblem extends the RFC 7807 body with the per-field
// messages of a rejected form submission.
type fieldValidationProblem struct {
	*problems.Problem

	Fields map[string]string `json:"fields"`
}

// handleServiceError provides typed error handling for service layer errors.
func handleServiceError(c fiber.Ctx, err error) error {
	if fields, ok := services.IsFieldValidation(err); ok {
		problem := &fieldValidationProblem{
			Problem: problems.NewStatusProblem(400).
				WithInstance(c.Path()).
				WithType("form_validation_error").
				WithDetail(err.Error()),
			Fields: fields,
		}

		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}

	var uploadErr *forms.UploadError
	if errors.As(err, &uploadErr) {
		// The storage backend refused the file; the submission itself is
		// fine, so report the failure against the field it hit.
		problem := &fieldValidationProblem{
			Problem: problems.NewStatusProblem(502).
				WithInstance(c.Path()).
				WithType("upload_failed").
				WithDetail(uploadErr.Error()),
			Fields: map[string]string{uploadErr.FieldID: "file could not be stored"},
		}

		return c.Status(fiber.StatusBadGateway).JSON(problem)
	}

	switch {
	case errors.Is(err, services.ErrInvalidTemplateDocument),
		errors.Is(err, services.ErrEmptyAssignee),
		errors.Is(err, forms.ErrUnknownField),
		errors.Is(err, forms.ErrLayoutField),
		errors.Is(err, forms.ErrValueShape):
		problem := problems.NewStatusProblem(400).
			WithInstance(c.Path()).
			WithType("validation_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(problem)

	case services.IsPermissionDenied(err):
		problem := problems.NewStatusProblem(403).
			WithInstance(c.Path()).
			WithType("permission_denied").
			WithDetail(err.Error())

		return c.Status(fiber.StatusForbidden).JSON(problem)

	case persistence.IsTemplateNotFound(err):
		problem := problems.NewStatusProblem(404).
			WithInstance(c.Path()).
			WithType("template_not_found").
			WithDetail("template not found")

		return c.Status(fiber.StatusNotFound).JSON(problem)

	case persistence.IsOrderNotFound(err):
		problem := problems.NewStatusProblem(404).
			WithInstance(c.Path()).
			WithType("order_not_found").
			WithDetail("order not found")

		return c.Status(fiber.StatusNotFound).JSON(problem)

	case services.IsIllegalTransition(err):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("illegal_transition").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	case persistence.IsConcurrentModification(err):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("concurrent_modification").
			WithDetail("the order was modified by someone else, reload and retry")

		return c.Status(fiber.StatusConflict).JSON(problem)

	case services.IsStructural(err):
		// The template is broken at the point this order needs it. The
		// order cannot proceed until an author repairs the template.
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("broken_template").
			WithDetail(err.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	default:
		problem := problems.NewStatusProblem(500).
			WithInstance(c.Path()).
			WithType("internal_error").
			WithError(err)

		return c.Status(fiber.StatusInternalServerError).JSON(problem)
	}
}
