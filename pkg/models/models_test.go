package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prolinkhq/meetings/pkg/models"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user models.User
		want string
	}{
		{"full name", models.User{FirstName: "Jane", LastName: "Doe", Username: "jdoe"}, "Jane Doe"},
		{"first only", models.User{FirstName: "Jane", Username: "jdoe"}, "Jane"},
		{"last only", models.User{LastName: "Doe", Username: "jdoe"}, "Doe"},
		{"username fallback", models.User{Username: "jdoe"}, "jdoe"},
		{"nothing", models.User{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestActiveAttendees(t *testing.T) {
	m := models.Meeting{
		Related:       models.RelatedContact,
		Attendees:     models.IDList{"c-1"},
		AttendeesLead: models.IDList{"l-1"},
	}
	require.Equal(t, models.IDList{"c-1"}, m.ActiveAttendees())
	m.Related = models.RelatedLead
	require.Equal(t, models.IDList{"l-1"}, m.ActiveAttendees())
}

func TestIDListScanValue(t *testing.T) {
	v, err := models.IDList{"a", "b"}.Value()
	require.NoError(t, err)
	require.JSONEq(t, `["a","b"]`, string(v.([]byte)))

	v, err = models.IDList(nil).Value()
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(v.([]byte)))

	var l models.IDList
	require.NoError(t, l.Scan([]byte(`["x","y"]`)))
	require.Equal(t, models.IDList{"x", "y"}, l)
	require.NoError(t, l.Scan(nil))
	require.Nil(t, l)
	require.Error(t, l.Scan(42))
}
