package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prolinkhq/meetings/pkg/logger"
	"github.com/prolinkhq/meetings/pkg/models"
	"github.com/prolinkhq/meetings/pkg/service"
)

func newResolver(store *stubStore) *service.Resolver {
	return service.NewResolver(logger.New(), store)
}

func TestUserNamesFallsBackToUsername(t *testing.T) {
	store := newStubStore()
	store.users["u-1"] = models.User{ID: "u-1", FirstName: "Jane", LastName: "Doe", Username: "jdoe"}
	store.users["u-2"] = models.User{ID: "u-2", Username: "ops"}
	store.users["u-3"] = models.User{ID: "u-3", LastName: "Stone"}
	r := newResolver(store)

	names := r.UserNames(context.Background(), []string{"u-1", "u-2", "u-3", "u-1", "u-gone"})
	require.Equal(t, map[string]string{
		"u-1": "Jane Doe",
		"u-2": "ops",
		"u-3": "Stone",
	}, names)
}

func TestUserNamesEmptyInput(t *testing.T) {
	r := newResolver(newStubStore())
	require.Empty(t, r.UserNames(context.Background(), nil))
}

func TestResolverNeverPropagatesErrors(t *testing.T) {
	store := newStubStore()
	store.failUsers = true
	store.failContacts = true
	store.failLeads = true
	r := newResolver(store)
	ctx := context.Background()

	require.Empty(t, r.UserNames(ctx, []string{"u-1"}))
	require.Nil(t, r.User(ctx, "u-1"))
	require.Empty(t, r.Contacts(ctx, models.IDList{"c-1"}))
	require.Empty(t, r.Leads(ctx, models.IDList{"l-1"}))
}
