package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/contacts-service/internal/domain"
	"github.com/spec-kit/contacts-service/internal/repository"
	"github.com/spec-kit/contacts-service/internal/service"
)

type fakeContactRepo struct {
	mu       sync.Mutex
	nextID   int64
	contacts map[int64]*domain.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[int64]*domain.Contact)}
}

func (r *fakeContactRepo) Create(_ context.Context, contact *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	contact.ID = r.nextID
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = time.Now()
	clone := *contact
	r.contacts[contact.ID] = &clone
	return nil
}

func (r *fakeContactRepo) Update(_ context.Context, contact *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contacts[contact.ID]
	if !ok || existing.UserID != contact.UserID {
		return pgx.ErrNoRows
	}
	contact.CreatedAt = existing.CreatedAt
	contact.UpdatedAt = time.Now()
	clone := *contact
	r.contacts[contact.ID] = &clone
	return nil
}

func (r *fakeContactRepo) Delete(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contacts[id]
	if !ok || existing.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.contacts, id)
	return nil
}

func (r *fakeContactRepo) GetByID(_ context.Context, userID, id int64) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contacts[id]
	if !ok || existing.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	clone := *existing
	return &clone, nil
}

func (r *fakeContactRepo) List(_ context.Context, userID int64, limit, offset int) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]domain.Contact, 0)
	for id := int64(1); id <= r.nextID; id++ {
		if contact, ok := r.contacts[id]; ok && contact.UserID == userID {
			matched = append(matched, *contact)
		}
	}
	if offset >= len(matched) {
		return []domain.Contact{}, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeContactRepo) Search(_ context.Context, userID int64, filter repository.ContactFilter) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]domain.Contact, 0)
	for id := int64(1); id <= r.nextID; id++ {
		contact, ok := r.contacts[id]
		if !ok || contact.UserID != userID {
			continue
		}
		hit := true
		for field, value := range filter {
			if value == "" {
				continue
			}
			var column string
			switch field {
			case repository.SearchFieldFirstName:
				column = contact.FirstName
			case repository.SearchFieldLastName:
				column = contact.LastName
			case repository.SearchFieldEmail:
				column = contact.Email
			default:
				continue
			}
			if !strings.Contains(strings.ToLower(column), strings.ToLower(value)) {
				hit = false
				break
			}
		}
		if hit {
			matched = append(matched, *contact)
		}
	}
	return matched, nil
}

func (r *fakeContactRepo) UpcomingBirthdays(_ context.Context, userID int64, monthDays []string, limit int) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	window := make(map[string]struct{}, len(monthDays))
	for _, monthDay := range monthDays {
		window[monthDay] = struct{}{}
	}
	matched := make([]domain.Contact, 0)
	for id := int64(1); id <= r.nextID; id++ {
		contact, ok := r.contacts[id]
		if !ok || contact.UserID != userID {
			continue
		}
		if _, ok := window[contact.Birthday.Format("01-02")]; ok {
			matched = append(matched, *contact)
		}
	}
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func seedContact(t *testing.T, svc *service.ContactService, userID int64, firstName, email string, birthday time.Time) *domain.Contact {
	t.Helper()
	contact, err := svc.Create(context.Background(), userID, service.ContactInput{
		FirstName: firstName,
		LastName:  "Tester",
		Email:     email,
		Phone:     "+100000000",
		Birthday:  birthday,
	})
	require.NoError(t, err)
	return contact
}

func TestContactCreateAndGet(t *testing.T) {
	svc := service.NewContactService(newFakeContactRepo())

	created := seedContact(t, svc, 1, "Alice", "alice@x.com", time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC))
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1), created.UserID)

	got, err := svc.Get(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FirstName)
}

func TestContactGetIsScopedToOwner(t *testing.T) {
	svc := service.NewContactService(newFakeContactRepo())
	created := seedContact(t, svc, 1, "Alice", "alice@x.com", time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC))

	// Another user's id space must not leak contacts across owners.
	_, err := svc.Get(context.Background(), 2, created.ID)
	de := domainErr(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, 404, de.HTTPStatus)
}

func TestContactListPagination(t *testing.T) {
	svc := service.NewContactService(newFakeContactRepo())
	for i := 0; i < 5; i++ {
		seedContact(t, svc, 1, "Alice", "alice@x.com", time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC))
	}
	seedContact(t, svc, 2, "Bob", "bob@x.com", time.Date(1991, 6, 11, 0, 0, 0, 0, time.UTC))

	page, err := svc.List(context.Background(), 1, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := svc.List(context.Background(), 1, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)

	// Non-positive limit falls back to the default page size.
	all, err := svc.List(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestContactUpdate(t *testing.T) {
	svc := service.NewContactService(newFakeContactRepo())
	created := seedContact(t, svc, 1, "Alice", "alice@x.com", time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC))

	updated, err := svc.Update(context.Background(), 1, created.ID, service.ContactInput{
		FirstName: "Alicia",
		LastName:  "Tester",
		Email:     "alicia@x.com",
		Phone:     "+100000001",
		Birthday:  created.Birthday,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "alicia@x.com", updated.Email)
}

func TestContactUpdateUnknownIsNotFound(t *testing.T) {
	svc := service.NewContactService(newFakeContactRepo())

	_, err := svc.Update(context.Background(), 1, 42, service.ContactInput{FirstName: "Ghost"})
	de := domainErr(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestContactDeleteReturnsLastState(t *testing.T) {
	svc := service.NewContactService(newFakeContactRepo())
	created := seedContact(t, svc, 1, "Alice", "alice@x.com", time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC))

	deleted, err := svc.Delete(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", deleted.FirstName)

	_, err = svc.Get(context.Background(), 1, created.ID)
	de := domainErr(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestContactDeleteUnknownIsNotFound(t *testing.T) {
	svc := service.NewContactService(newFakeContactRepo())

	_, err := svc.Delete(context.Background(), 1, 42)
	de := domainErr(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestContactSearchRequiresAtLeastOneFilter(t *testing.T) {
	svc := service.NewContactService(newFakeContactRepo())

	tests := []struct {
		name   string
		filter repository.ContactFilter
	}{
		{name: "nil filter", filter: nil},
		{name: "empty filter", filter: repository.ContactFilter{}},
		{name: "all values blank", filter: repository.ContactFilter{repository.SearchFieldFirstName: ""}},
		{name: "unknown field only", filter: repository.ContactFilter{repository.SearchField("phone"): "555"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), 1, tt.filter)
			de := domainErr(t, err)
			assert.Equal(t, "VALIDATION_FAILED", de.Code)
			assert.Equal(t, 400, de.HTTPStatus)
		})
	}
}

func TestContactSearchMatchesEnumeratedFields(t *testing.T) {
	svc := service.NewContactService(newFakeContactRepo())
	seedContact(t, svc, 1, "Alice", "alice@x.com", time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC))
	seedContact(t, svc, 1, "Bob", "bob@x.com", time.Date(1991, 6, 11, 0, 0, 0, 0, time.UTC))
	seedContact(t, svc, 2, "Alice", "alice.other@x.com", time.Date(1992, 7, 12, 0, 0, 0, 0, time.UTC))

	matched, err := svc.Search(context.Background(), 1, repository.ContactFilter{
		repository.SearchFieldFirstName: "ali",
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "alice@x.com", matched[0].Email)
}

func TestUpcomingBirthdaysUsesSevenDayWindow(t *testing.T) {
	svc := service.NewContactService(newFakeContactRepo())
	now := time.Now()

	inWindow := seedContact(t, svc, 1, "Soon", "soon@x.com",
		time.Date(1990, now.AddDate(0, 0, 3).Month(), now.AddDate(0, 0, 3).Day(), 0, 0, 0, 0, time.UTC))
	seedContact(t, svc, 1, "Later", "later@x.com",
		time.Date(1990, now.AddDate(0, 0, 30).Month(), now.AddDate(0, 0, 30).Day(), 0, 0, 0, 0, time.UTC))

	matched, err := svc.UpcomingBirthdays(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, inWindow.Email, matched[0].Email)
}
