package dto

import (
	"time"

	"github.com/spec-kit/contacts-service/internal/domain"
)

const birthdayLayout = "2006-01-02"

// ContactRequest payload for create and update.
type ContactRequest struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Birthday       string  `json:"birthday"`
	AdditionalData *string `json:"additional_data"`
}

// ParseBirthday decodes the YYYY-MM-DD birthday field.
func (r ContactRequest) ParseBirthday() (time.Time, error) {
	return time.Parse(birthdayLayout, r.Birthday)
}

// ContactResponse is the public view of a contact.
type ContactResponse struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Birthday       string  `json:"birthday"`
	AdditionalData *string `json:"additional_data"`
}

// NewContactResponse maps a domain contact to its public view.
func NewContactResponse(contact *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:             contact.ID,
		FirstName:      contact.FirstName,
		LastName:       contact.LastName,
		Email:          contact.Email,
		Phone:          contact.Phone,
		Birthday:       contact.Birthday.Format(birthdayLayout),
		AdditionalData: contact.AdditionalData,
	}
}

// NewContactResponses maps a slice of contacts.
func NewContactResponses(contacts []domain.Contact) []ContactResponse {
	items := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		items = append(items, NewContactResponse(&contacts[i]))
	}
	return items
}
