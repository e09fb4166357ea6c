package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/prolinkhq/meetings/pkg/metrics"
	"github.com/prolinkhq/meetings/pkg/models"
)

// UnknownUser is the display name for creators that no longer resolve.
const UnknownUser = "Unknown User"

type RefStore interface {
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUsers(ctx context.Context, ids []string) ([]models.User, error)
	GetContacts(ctx context.Context, ids []string) ([]models.Contact, error)
	GetLeads(ctx context.Context, ids []string) ([]models.Lead, error)
}

// Resolver turns raw reference ids into display-ready records. Lookup
// failures never escape it: they are logged and collapse to the absent
// result, so callers always get a usable (possibly degraded) value.
type Resolver struct {
	log   *logrus.Entry
	store RefStore
}

func NewResolver(log *logrus.Logger, store RefStore) *Resolver {
	return &Resolver{
		log:   log.WithField("component", "resolver"),
		store: store,
	}
}

// UserNames resolves creator ids to display names in one batch. Ids that do
// not resolve are simply absent from the returned map.
func (r *Resolver) UserNames(ctx context.Context, ids []string) map[string]string {
	names := make(map[string]string)
	if len(ids) == 0 {
		return names
	}
	users, err := r.store.GetUsers(ctx, dedupe(ids))
	if err != nil {
		r.degraded("users", err)
		return names
	}
	for _, u := range users {
		if name := u.DisplayName(); name != "" {
			names[u.ID] = name
		}
	}
	return names
}

// User resolves a single creator reference, nil when the user is gone or the
// lookup fails.
func (r *Resolver) User(ctx context.Context, id string) *models.User {
	user, err := r.store.GetUser(ctx, id)
	if err != nil {
		r.degraded("users", err)
		return nil
	}
	return &user
}

// Contacts resolves contact attendee ids; dangling ids are dropped and a
// failed lookup yields an empty list.
func (r *Resolver) Contacts(ctx context.Context, ids models.IDList) []models.Contact {
	contacts, err := r.store.GetContacts(ctx, dedupe(ids))
	if err != nil {
		r.degraded("contacts", err)
		return []models.Contact{}
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	return contacts
}

// Leads resolves lead attendee ids with the same degradation policy.
func (r *Resolver) Leads(ctx context.Context, ids models.IDList) []models.Lead {
	leads, err := r.store.GetLeads(ctx, dedupe(ids))
	if err != nil {
		r.degraded("leads", err)
		return []models.Lead{}
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	return leads
}

func (r *Resolver) degraded(collection string, err error) {
	metrics.ResolverDegraded.WithLabelValues(collection).Inc()
	r.log.Warnf("err resolving %s, degrading: %v", collection, err)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
