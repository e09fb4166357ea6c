package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prolinkhq/meetings/pkg/models"
)

// Reference lookups back the resolvers: fixed projections over the
// collections the meeting records point into.

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	defer s.observe("GetUser", time.Now())
	var user models.User
	query := `
SELECT id, first_name, last_name, username FROM users
WHERE id = $1;`
	var err error
	for i := 0; i < retries; i++ {
		err = s.db.GetContext(ctx, &user, query, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.User{}, ErrUserNotFound
		case err != nil:
			continue
		}
		return user, nil
	}
	return models.User{}, s.fail("GetUser", fmt.Errorf("err getting user %s: %w", id, err))
}

func (s *Store) GetUsers(ctx context.Context, ids []string) ([]models.User, error) {
	defer s.observe("GetUsers", time.Now())
	var users []models.User
	query := `
SELECT id, first_name, last_name, username FROM users
WHERE id = ANY($1);`
	var err error
	for i := 0; i < retries; i++ {
		if err = s.db.SelectContext(ctx, &users, query, ids); err != nil {
			continue
		}
		return users, nil
	}
	return nil, s.fail("GetUsers", fmt.Errorf("err getting users: %w", err))
}

func (s *Store) GetContacts(ctx context.Context, ids []string) ([]models.Contact, error) {
	defer s.observe("GetContacts", time.Now())
	var contacts []models.Contact
	query := `
SELECT id, first_name, last_name, email, title FROM contacts
WHERE id = ANY($1);`
	var err error
	for i := 0; i < retries; i++ {
		if err = s.db.SelectContext(ctx, &contacts, query, ids); err != nil {
			continue
		}
		return contacts, nil
	}
	return nil, s.fail("GetContacts", fmt.Errorf("err getting contacts: %w", err))
}

func (s *Store) GetLeads(ctx context.Context, ids []string) ([]models.Lead, error) {
	defer s.observe("GetLeads", time.Now())
	var leads []models.Lead
	query := `
SELECT id, lead_name, lead_email FROM leads
WHERE id = ANY($1);`
	var err error
	for i := 0; i < retries; i++ {
		if err = s.db.SelectContext(ctx, &leads, query, ids); err != nil {
			continue
		}
		return leads, nil
	}
	return nil, s.fail("GetLeads", fmt.Errorf("err getting leads: %w", err))
}

// Seed helpers. The referenced collections are owned by other parts of the
// CRM; these exist for provisioning and tests.

func (s *Store) CreateUser(ctx context.Context, user models.UserRequest) (models.User, error) {
	defer s.observe("CreateUser", time.Now())
	var created models.User
	query := `
INSERT INTO users (id, first_name, last_name, username)
VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''))
RETURNING id, first_name, last_name, username;`
	var err error
	for i := 0; i < retries; i++ {
		if err = s.db.QueryRowxContext(ctx, query, uuid.New().String(), user.FirstName, user.LastName, user.Username).
			StructScan(&created); err != nil {
			continue
		}
		return created, nil
	}
	return models.User{}, s.fail("CreateUser", fmt.Errorf("err creating user: %w", err))
}

func (s *Store) CreateContact(ctx context.Context, contact models.ContactRequest) (models.Contact, error) {
	defer s.observe("CreateContact", time.Now())
	var created models.Contact
	query := `
INSERT INTO contacts (id, first_name, last_name, email, title)
VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''))
RETURNING id, first_name, last_name, email, title;`
	var err error
	for i := 0; i < retries; i++ {
		if err = s.db.QueryRowxContext(ctx, query, uuid.New().String(), contact.FirstName, contact.LastName, contact.Email, contact.Title).
			StructScan(&created); err != nil {
			continue
		}
		return created, nil
	}
	return models.Contact{}, s.fail("CreateContact", fmt.Errorf("err creating contact: %w", err))
}

func (s *Store) CreateLead(ctx context.Context, lead models.LeadRequest) (models.Lead, error) {
	defer s.observe("CreateLead", time.Now())
	var created models.Lead
	query := `
INSERT INTO leads (id, lead_name, lead_email)
VALUES ($1, COALESCE($2, ''), COALESCE($3, ''))
RETURNING id, lead_name, lead_email;`
	var err error
	for i := 0; i < retries; i++ {
		if err = s.db.QueryRowxContext(ctx, query, uuid.New().String(), lead.LeadName, lead.LeadEmail).
			StructScan(&created); err != nil {
			continue
		}
		return created, nil
	}
	return models.Lead{}, s.fail("CreateLead", fmt.Errorf("err creating lead: %w", err))
}
