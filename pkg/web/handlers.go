package web

import (
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/reviewdrip/reviewdrip/pkg/campaign"
	"github.com/reviewdrip/reviewdrip/pkg/contacts"
	"github.com/reviewdrip/reviewdrip/pkg/funnel"
	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
	"github.com/reviewdrip/reviewdrip/pkg/platforms"
	"github.com/reviewdrip/reviewdrip/pkg/sequence"
	"github.com/reviewdrip/reviewdrip/pkg/sessions"
)

type APIHandlers struct {
	machine         *funnel.Machine
	sessionStore    sessions.Store
	registry        *platforms.Registry
	contactService  *contacts.Service
	campaignService *campaign.Service
	sender          *campaign.Sender
	persistence     persistence.Persistence
	validator       *validator.Validate
}

func NewAPIHandlers(
	machine *funnel.Machine,
	sessionStore sessions.Store,
	registry *platforms.Registry,
	contactService *contacts.Service,
	campaignService *campaign.Service,
	sender *campaign.Sender,
	persistence persistence.Persistence,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		machine:         machine,
		sessionStore:    sessionStore,
		registry:        registry,
		contactService:  contactService,
		campaignService: campaignService,
		sender:          sender,
		persistence:     persistence,
		validator:       validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	message := "ReviewDrip API is healthy"
	httpStatus := http.StatusOK

	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		status = "unhealthy"
		message = "ReviewDrip API is unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().UTC(),
	})
}

// Funnel session handlers.

func (h *APIHandlers) CreateSession(c fiber.Ctx) error {
	session := h.machine.NewSession()

	if err := h.sessionStore.Save(c.Context(), session); err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *APIHandlers) GetSession(c fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(session)
}

func (h *APIHandlers) RateSession(c fiber.Ctx) error {
	var req RateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	session, err := h.loadSession(c)
	if err != nil {
		return handleServiceError(c, err)
	}

	if err := h.machine.Rate(c.Context(), session, req.Rating); err != nil {
		return handleServiceError(c, err)
	}

	if err := h.sessionStore.Save(c.Context(), session); err != nil {
		return internalError(c, err)
	}

	return c.JSON(session)
}

func (h *APIHandlers) GetPlatforms(c fiber.Ctx) error {
	buttons, err := h.registry.EligibleButtons(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"platforms": buttons})
}

func (h *APIHandlers) SelectPlatform(c fiber.Ctx) error {
	var req SelectPlatformRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	session, err := h.loadSession(c)
	if err != nil {
		return handleServiceError(c, err)
	}

	link, err := h.registry.LinkByPlatformID(c.Context(), req.PlatformID)
	if err != nil {
		return handleServiceError(c, err)
	}

	redirect, err := h.machine.SelectPlatform(c.Context(), session, link)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(redirect)
}

func (h *APIHandlers) SelectVideo(c fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return handleServiceError(c, err)
	}

	if err := h.machine.SelectVideo(c.Context(), session); err != nil {
		return handleServiceError(c, err)
	}

	if err := h.sessionStore.Save(c.Context(), session); err != nil {
		return internalError(c, err)
	}

	return c.JSON(session)
}

func (h *APIHandlers) GoBack(c fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return handleServiceError(c, err)
	}

	if err := h.machine.Back(session); err != nil {
		return handleServiceError(c, err)
	}

	if err := h.sessionStore.Save(c.Context(), session); err != nil {
		return internalError(c, err)
	}

	return c.JSON(session)
}

func (h *APIHandlers) SubmitFeedback(c fiber.Ctx) error {
	var req FeedbackRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	session, err := h.loadSession(c)
	if err != nil {
		return handleServiceError(c, err)
	}

	if err := h.machine.SubmitFeedback(c.Context(), session, req.Name, req.Email, req.Text); err != nil {
		// Drafts survive a failed submission so the customer can correct
		// the form without retyping it.
		if saveErr := h.sessionStore.Save(c.Context(), session); saveErr != nil {
			return internalError(c, saveErr)
		}

		return handleServiceError(c, err)
	}

	if err := h.sessionStore.Save(c.Context(), session); err != nil {
		return internalError(c, err)
	}

	return c.JSON(session)
}

func (h *APIHandlers) SubmitVideo(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "A video file is required")
	}

	draft := models.VideoDraft{
		FileName: fileHeader.Filename,
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Consent:  c.FormValue("consent") == "true",
	}

	session, err := h.loadSession(c)
	if err != nil {
		return handleServiceError(c, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return internalError(c, err)
	}
	defer file.Close()

	if err := h.machine.SubmitVideo(c.Context(), session, draft, io.Reader(file)); err != nil {
		if saveErr := h.sessionStore.Save(c.Context(), session); saveErr != nil {
			return internalError(c, saveErr)
		}

		return handleServiceError(c, err)
	}

	if err := h.sessionStore.Save(c.Context(), session); err != nil {
		return internalError(c, err)
	}

	return c.JSON(session)
}

// loadSession fetches the session and applies the automatic success timeout
// before any input is considered.
func (h *APIHandlers) loadSession(c fiber.Ctx) (*models.FunnelSession, error) {
	id := c.Params("id")

	session, err := h.sessionStore.Get(c.Context(), id)
	if err != nil {
		return nil, err
	}

	h.machine.Resolve(session, time.Now().UTC())

	return session, nil
}

// Contact handlers.

func (h *APIHandlers) GetContacts(c fiber.Ctx) error {
	list, err := h.contactService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(list)
}

func (h *APIHandlers) GetContact(c fiber.Ctx) error {
	contact, err := h.contactService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(contact)
}

func (h *APIHandlers) CreateContact(c fiber.Ctx) error {
	var req CreateContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	contact := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Channel: req.Channel,
	}

	created, err := h.contactService.Create(c.Context(), contact)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateContact(c fiber.Ctx) error {
	var req CreateContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	contact := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Channel: req.Channel,
	}

	updated, err := h.contactService.Update(c.Context(), c.Params("id"), contact)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteContact(c fiber.Ctx) error {
	if err := h.contactService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) BulkImportContacts(c fiber.Ctx) error {
	var req BulkImportRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.contactService.BulkImport(c.Context(), req.Text, req.Channel)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

// Campaign handlers.

func (h *APIHandlers) GetCampaigns(c fiber.Ctx) error {
	list, err := h.campaignService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(list)
}

func (h *APIHandlers) GetCampaign(c fiber.Ctx) error {
	found, err := h.campaignService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(found)
}

func (h *APIHandlers) CreateCampaign(c fiber.Ctx) error {
	var req CreateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.campaignService.Create(c.Context(), &models.Campaign{
		Name:           req.Name,
		Type:           req.Type,
		SenderIdentity: req.SenderIdentity,
		Subject:        req.Subject,
		Content:        req.Content,
		Trigger:        req.Trigger,
		Sequence:       req.Sequence,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateCampaign(c fiber.Ctx) error {
	var req CreateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.campaignService.Update(c.Context(), c.Params("id"), &models.Campaign{
		Name:           req.Name,
		Type:           req.Type,
		SenderIdentity: req.SenderIdentity,
		Subject:        req.Subject,
		Content:        req.Content,
		Trigger:        req.Trigger,
		Sequence:       req.Sequence,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteCampaign(c fiber.Ctx) error {
	if err := h.campaignService.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ImportCampaign(c fiber.Ctx) error {
	imported, err := campaign.ImportCampaign(c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	created, err := h.campaignService.Create(c.Context(), imported)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) EnrollContact(c fiber.Ctx) error {
	var req EnrollRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if _, err := h.contactService.FetchByID(c.Context(), req.ContactID); err != nil {
		return handleServiceError(c, err)
	}

	enrollment, err := h.campaignService.Enroll(c.Context(), c.Params("id"), req.ContactID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

func (h *APIHandlers) SendCampaign(c fiber.Ctx) error {
	var req SendRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	found, err := h.campaignService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	recipients := make([]*models.Contact, 0, len(req.ContactIDs))

	for _, contactID := range req.ContactIDs {
		contact, err := h.contactService.FetchByID(c.Context(), contactID)
		if err != nil {
			return handleServiceError(c, err)
		}

		recipients = append(recipients, contact)
	}

	report := h.sender.SendToContacts(c.Context(), found, recipients)

	return c.JSON(report)
}

// Sequence editing handlers. Edits are applied to the campaign's sequence
// and written back atomically with the campaign.

func (h *APIHandlers) EditSequenceStep(c fiber.Ctx) error {
	var req EditStepRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	return h.editSequence(c, func(editor *sequence.Editor) error {
		return editor.EditField(c.Params("stepId"), sequence.Field(req.Field), req.Value)
	})
}

func (h *APIHandlers) DecideBranch(c fiber.Ctx) error {
	var req BranchDecisionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	return h.editSequence(c, func(editor *sequence.Editor) error {
		return editor.SetBranchDecision(c.Params("stepId"), req.Decision)
	})
}

func (h *APIHandlers) editSequence(c fiber.Ctx, mutate func(*sequence.Editor) error) error {
	found, err := h.campaignService.FetchByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	if found.Sequence == nil {
		return badRequest(c, "Campaign has no sequence")
	}

	if err := mutate(sequence.NewEditor(found.Sequence)); err != nil {
		return handleSequenceError(c, err)
	}

	updated, err := h.campaignService.Update(c.Context(), found.ID, found)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

// Platform link handlers.

func (h *APIHandlers) GetPlatformLinks(c fiber.Ctx) error {
	links, err := h.persistence.PlatformLinks().PlatformLinks(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(links)
}

func (h *APIHandlers) SavePlatformLink(c fiber.Ctx) error {
	var req SavePlatformLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	now := time.Now().UTC()

	link := &models.PlatformLink{
		ID:         c.Params("id"),
		Title:      req.Title,
		URL:        req.URL,
		ButtonText: req.ButtonText,
		IsActive:   req.IsActive,
		PlatformID: req.PlatformID,
		Position:   req.Position,
		UpdatedAt:  now,
	}

	if link.ID == "" {
		link.ID = uuid.New().String()
		link.CreatedAt = now
	}

	if err := h.persistence.PlatformLinks().SavePlatformLink(c.Context(), link); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(link)
}

func (h *APIHandlers) DeletePlatformLink(c fiber.Ctx) error {
	if err := h.persistence.PlatformLinks().DeletePlatformLink(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
