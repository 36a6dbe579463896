package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/contacts-service/internal/domain"
)

// SearchField enumerates the contact columns exposed to search. Field names
// arriving from clients are matched against this set and never resolved
// dynamically against the model.
type SearchField string

const (
	SearchFieldFirstName SearchField = "first_name"
	SearchFieldLastName  SearchField = "last_name"
	SearchFieldEmail     SearchField = "email"
)

var searchColumns = map[SearchField]string{
	SearchFieldFirstName: "first_name",
	SearchFieldLastName:  "last_name",
	SearchFieldEmail:     "email",
}

// ContactFilter carries enumerated search terms.
type ContactFilter map[SearchField]string

// HasCriteria reports whether the filter carries a non-empty value for at
// least one known search field. Unknown fields never count: the query
// builder drops them, so they must not satisfy the at-least-one-filter rule
// and silently return the full list.
func (f ContactFilter) HasCriteria() bool {
	for field, value := range f {
		if _, ok := searchColumns[field]; ok && value != "" {
			return true
		}
	}
	return false
}

// ContactRepository encapsulates contact persistence. Every operation is
// scoped to the owning user.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	Update(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, userID, id int64) error
	GetByID(ctx context.Context, userID, id int64) (*domain.Contact, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]domain.Contact, error)
	Search(ctx context.Context, userID int64, filter ContactFilter) ([]domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID int64, monthDays []string, limit int) ([]domain.Contact, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository instantiates repository.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

const contactColumns = `id, first_name, last_name, email, phone, birthday, additional_data, user_id, created_at, updated_at`

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	const query = `
        INSERT INTO contacts (first_name, last_name, email, phone, birthday, additional_data, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.Birthday,
		contact.AdditionalData,
		contact.UserID,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
}

func (r *contactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	const query = `
        UPDATE contacts SET first_name=$1, last_name=$2, email=$3, phone=$4,
            birthday=$5, additional_data=$6, updated_at=NOW()
        WHERE id=$7 AND user_id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.Birthday,
		contact.AdditionalData,
		contact.ID,
		contact.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, userID, id int64) error {
	const query = `DELETE FROM contacts WHERE id=$1 AND user_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	const query = `SELECT ` + contactColumns + ` FROM contacts WHERE id=$1 AND user_id=$2`
	var contact domain.Contact
	if err := scanContact(r.pool.QueryRow(ctx, query, id, userID), &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) List(ctx context.Context, userID int64, limit, offset int) ([]domain.Contact, error) {
	const query = `
        SELECT ` + contactColumns + ` FROM contacts
        WHERE user_id=$1 ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

func (r *contactRepository) Search(ctx context.Context, userID int64, filter ContactFilter) ([]domain.Contact, error) {
	conditions := []string{"user_id=$1"}
	args := []any{userID}

	for field, value := range filter {
		column, ok := searchColumns[field]
		if !ok || value == "" {
			continue
		}
		args = append(args, "%"+value+"%")
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
	}

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY id`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

// UpcomingBirthdays matches contacts whose birthday month-day falls in the
// given set, so the window survives year wrap.
func (r *contactRepository) UpcomingBirthdays(ctx context.Context, userID int64, monthDays []string, limit int) ([]domain.Contact, error) {
	const query = `
        SELECT ` + contactColumns + ` FROM contacts
        WHERE user_id=$1 AND to_char(birthday, 'MM-DD') = ANY($2)
        ORDER BY to_char(birthday, 'MM-DD') LIMIT $3`
	rows, err := r.pool.Query(ctx, query, userID, monthDays, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

// BirthdayWindow returns the MM-DD strings for the next days starting today.
// Feb 29 is mapped to Feb 28 on non-leap years so those contacts still
// surface.
func BirthdayWindow(now time.Time, days int) []string {
	seen := make(map[string]struct{}, days+1)
	window := make([]string, 0, days+1)
	for i := 0; i <= days; i++ {
		day := now.AddDate(0, 0, i)
		key := day.Format("01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		window = append(window, key)
		if key == "02-28" && !isLeapYear(day.Year()) {
			if _, ok := seen["02-29"]; !ok {
				seen["02-29"] = struct{}{}
				window = append(window, "02-29")
			}
		}
	}
	return window
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func scanContact(row pgx.Row, contact *domain.Contact) error {
	return row.Scan(
		&contact.ID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.Phone,
		&contact.Birthday,
		&contact.AdditionalData,
		&contact.UserID,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
}

func collectContacts(rows pgx.Rows) ([]domain.Contact, error) {
	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		var contact domain.Contact
		if err := scanContact(rows, &contact); err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}
