package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contacts-service/internal/api/dto"
	"github.com/spec-kit/contacts-service/internal/auth"
	"github.com/spec-kit/contacts-service/internal/repository"
	"github.com/spec-kit/contacts-service/internal/service"
	apperrors "github.com/spec-kit/contacts-service/pkg/util"
)

// ContactsHandler manages the per-user contacts endpoints.
type ContactsHandler struct {
	contacts *service.ContactService
}

// NewContactsHandler constructs handler.
func NewContactsHandler(contactService *service.ContactService) *ContactsHandler {
	return &ContactsHandler{contacts: contactService}
}

// Create handles POST /api/contacts.
func (h *ContactsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("could not validate credentials")
	}

	input, err := parseContactRequest(c)
	if err != nil {
		return err
	}

	contact, err := h.contacts.Create(c.Context(), principal.ID, *input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewContactResponse(contact))
}

// List handles GET /api/contacts.
func (h *ContactsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("could not validate credentials")
	}

	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	contacts, err := h.contacts.List(c.Context(), principal.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewContactResponses(contacts))
}

// Search handles GET /api/contacts/search. Only the enumerated fields are
// ever mapped to columns; anything else is ignored by construction.
func (h *ContactsHandler) Search(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("could not validate credentials")
	}

	filter := repository.ContactFilter{
		repository.SearchFieldFirstName: c.Query("name"),
		repository.SearchFieldLastName:  c.Query("last_name"),
		repository.SearchFieldEmail:     c.Query("email"),
	}
	contacts, err := h.contacts.Search(c.Context(), principal.ID, filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewContactResponses(contacts))
}

// Birthdays handles GET /api/contacts/birthdays.
func (h *ContactsHandler) Birthdays(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("could not validate credentials")
	}

	limit := c.QueryInt("limit", 100)
	contacts, err := h.contacts.UpcomingBirthdays(c.Context(), principal.ID, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewContactResponses(contacts))
}

// Get handles GET /api/contacts/:id.
func (h *ContactsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("could not validate credentials")
	}

	id, err := parseContactID(c)
	if err != nil {
		return err
	}
	contact, err := h.contacts.Get(c.Context(), principal.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewContactResponse(contact))
}

// Update handles PUT /api/contacts/:id.
func (h *ContactsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("could not validate credentials")
	}

	id, err := parseContactID(c)
	if err != nil {
		return err
	}
	input, err := parseContactRequest(c)
	if err != nil {
		return err
	}

	contact, err := h.contacts.Update(c.Context(), principal.ID, id, *input)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewContactResponse(contact))
}

// Delete handles DELETE /api/contacts/:id.
func (h *ContactsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("could not validate credentials")
	}

	id, err := parseContactID(c)
	if err != nil {
		return err
	}
	contact, err := h.contacts.Delete(c.Context(), principal.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewContactResponse(contact))
}

func parseContactID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid contact id", nil)
	}
	return id, nil
}

func parseContactRequest(c *fiber.Ctx) (*service.ContactInput, error) {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, apperrors.NewValidationError("first_name and last_name required", nil)
	}
	if strings.TrimSpace(req.Phone) == "" {
		return nil, apperrors.NewValidationError("phone required", nil)
	}
	if !validEmail(req.Email) {
		return nil, apperrors.NewValidationError("valid email required", nil)
	}
	birthday, err := req.ParseBirthday()
	if err != nil {
		return nil, apperrors.NewValidationError("birthday must be YYYY-MM-DD", nil)
	}

	return &service.ContactInput{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          req.Email,
		Phone:          strings.TrimSpace(req.Phone),
		Birthday:       birthday,
		AdditionalData: req.AdditionalData,
	}, nil
}
