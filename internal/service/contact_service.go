package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/contacts-service/internal/domain"
	"github.com/spec-kit/contacts-service/internal/repository"
	apperrors "github.com/spec-kit/contacts-service/pkg/util"
)

const birthdayWindowDays = 7

// ContactService orchestrates the per-user contacts table.
type ContactService struct {
	contacts repository.ContactRepository
}

// NewContactService builds the service.
func NewContactService(contacts repository.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// ContactInput carries create/update fields.
type ContactInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Birthday       time.Time
	AdditionalData *string
}

// Create stores a new contact owned by the user.
func (s *ContactService) Create(ctx context.Context, userID int64, input ContactInput) (*domain.Contact, error) {
	contact := &domain.Contact{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Birthday:       input.Birthday,
		AdditionalData: input.AdditionalData,
		UserID:         userID,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// List returns the user's contacts with pagination.
func (s *ContactService) List(ctx context.Context, userID int64, limit, offset int) ([]domain.Contact, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.contacts.List(ctx, userID, limit, offset)
}

// Get returns one contact, or NOT_FOUND if it does not exist or belongs to
// someone else.
func (s *ContactService) Get(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("contact", nil)
		}
		return nil, err
	}
	return contact, nil
}

// Update replaces the contact's fields.
func (s *ContactService) Update(ctx context.Context, userID, id int64, input ContactInput) (*domain.Contact, error) {
	contact := &domain.Contact{
		ID:             id,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Birthday:       input.Birthday,
		AdditionalData: input.AdditionalData,
		UserID:         userID,
	}
	if err := s.contacts.Update(ctx, contact); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("contact", nil)
		}
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Delete removes the contact and returns its last state.
func (s *ContactService) Delete(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	contact, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.contacts.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("contact", nil)
		}
		return nil, err
	}
	return contact, nil
}

// Search matches contacts against the enumerated searchable fields. At
// least one filter must be present.
func (s *ContactService) Search(ctx context.Context, userID int64, filter repository.ContactFilter) ([]domain.Contact, error) {
	if !filter.HasCriteria() {
		return nil, apperrors.NewValidationError("at least one search filter must be provided", nil)
	}
	return s.contacts.Search(ctx, userID, filter)
}

// UpcomingBirthdays returns contacts whose birthday falls within the next
// seven days, year wrap included.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID int64, limit int) ([]domain.Contact, error) {
	if limit <= 0 {
		limit = 100
	}
	window := repository.BirthdayWindow(time.Now(), birthdayWindowDays)
	return s.contacts.UpcomingBirthdays(ctx, userID, window, limit)
}
