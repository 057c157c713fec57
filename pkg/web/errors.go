package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/reviewdrip/reviewdrip/pkg/campaign"
	"github.com/reviewdrip/reviewdrip/pkg/contacts"
	"github.com/reviewdrip/reviewdrip/pkg/funnel"
	"github.com/reviewdrip/reviewdrip/pkg/ingest"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
	"github.com/reviewdrip/reviewdrip/pkg/sequence"
	"github.com/reviewdrip/reviewdrip/pkg/sessions"
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

// handleServiceError maps domain errors onto problem responses.
func handleServiceError(c fiber.Ctx, err error) error {
	var fieldErrs funnel.ValidationErrors

	switch {
	case errors.As(err, &fieldErrs):
		// Field-level problems keep the session in place; the client renders
		// them inline.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"type":   "validation_error",
			"errors": fieldErrs,
		})

	case errors.Is(err, funnel.ErrInvalidRating):
		return badRequest(c, "rating must be between 1 and 5")

	case errors.Is(err, funnel.ErrInvalidTransition):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("invalid_transition").
			WithDetail("the session does not accept this input in its current state")

		return c.Status(fiber.StatusConflict).JSON(problem)

	case errors.Is(err, funnel.ErrVideoNotConfigured):
		return badRequest(c, "video testimonial is not configured")

	case errors.Is(err, funnel.ErrSubmissionIncomplete):
		return badRequest(c, "video submission requires a file, name, email, and consent")

	case errors.Is(err, ingest.ErrEmptyInput):
		return badRequest(c, "bulk input is empty")

	case errors.Is(err, sessions.ErrSessionNotFound):
		return notFound(c, "funnel session not found")

	case errors.Is(err, contacts.ErrContactNotFound):
		return notFound(c, "contact not found")

	case errors.Is(err, campaign.ErrCampaignNotFound):
		return notFound(c, "campaign not found")

	case persistence.IsPlatformLinkNotFound(err):
		return notFound(c, "platform link not found")

	case persistence.IsContactConflict(err):
		detail := "contact already exists"

		var conflict *persistence.ConflictError
		if errors.As(err, &conflict) {
			detail = "a contact with this " + conflict.Field + " already exists"
		}

		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("conflict").
			WithDetail(detail)

		return c.Status(fiber.StatusConflict).JSON(problem)

	case funnel.IsTransportError(err):
		problem := problems.NewStatusProblem(502).
			WithInstance(c.Path()).
			WithType("transport_error").
			WithDetail("submission failed; nothing was changed, try again")

		return c.Status(fiber.StatusBadGateway).JSON(problem)

	case errors.Is(err, campaign.ErrInvalidCampaignDocument):
		return badRequest(c, err.Error())

	default:
		return internalError(c, err)
	}
}

// handleSequenceError maps sequence editing errors onto problem responses.
func handleSequenceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, sequence.ErrStepNotFound):
		return notFound(c, err.Error())

	case errors.Is(err, sequence.ErrNotBranchStep),
		errors.Is(err, sequence.ErrUnknownField),
		errors.Is(err, sequence.ErrInvalidFieldValue),
		errors.Is(err, sequence.ErrInvalidDecision):
		return badRequest(c, err.Error())

	default:
		return internalError(c, err)
	}
}
