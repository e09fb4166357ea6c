package rest

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/prolinkhq/meetings/pkg/logger"
	"github.com/prolinkhq/meetings/pkg/models"
	"github.com/prolinkhq/meetings/pkg/pgstore"
)

type stubApp struct {
	meetings map[string]models.Meeting
	details  map[string]models.MeetingDetails
	added    *models.MeetingRequest
	actingID string
}

func newStubApp() *stubApp {
	return &stubApp{
		meetings: make(map[string]models.Meeting),
		details:  make(map[string]models.MeetingDetails),
	}
}

func (a *stubApp) AddMeeting(_ context.Context, req models.MeetingRequest, actingUserID string) (models.Meeting, error) {
	if req.Agenda == nil {
		return models.Meeting{}, &models.ValidationError{Fields: []string{"agenda"}}
	}
	a.added = &req
	a.actingID = actingUserID
	return models.Meeting{ID: "m-1", Agenda: *req.Agenda, CreatedBy: actingUserID}, nil
}

func (a *stubApp) GetMeetings(_ context.Context, filter models.MeetingFilter) ([]models.EnrichedMeeting, error) {
	result := make([]models.EnrichedMeeting, 0)
	for _, m := range a.meetings {
		if filter.CreatedBy != nil && m.CreatedBy != *filter.CreatedBy {
			continue
		}
		result = append(result, models.EnrichedMeeting{Meeting: m, CreatedByName: "Jane Doe"})
	}
	return result, nil
}

func (a *stubApp) GetMeeting(_ context.Context, id string) (models.MeetingDetails, error) {
	d, ok := a.details[id]
	if !ok {
		return models.MeetingDetails{}, pgstore.ErrMeetingNotFound
	}
	return d, nil
}

func (a *stubApp) UpdateMeeting(_ context.Context, id string, _ models.MeetingRequest) (models.UpdateResult, error) {
	if _, ok := a.meetings[id]; !ok {
		return models.UpdateResult{}, pgstore.ErrMeetingNotFound
	}
	return models.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (a *stubApp) DeleteMeeting(_ context.Context, id string) (models.Meeting, error) {
	m, ok := a.meetings[id]
	if !ok {
		return models.Meeting{}, pgstore.ErrMeetingNotFound
	}
	m.Deleted = true
	return m, nil
}

func (a *stubApp) DeleteMeetings(_ context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, &models.ValidationError{Fields: []string{"ids"}}
	}
	return int64(len(ids)), nil
}

type testEnv struct {
	app    *stubApp
	server *httptest.Server
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "u-1",
		Role:   models.RoleUser,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)

	app := newStubApp()
	s := NewServer(logger.New(), app, ":0", "test", &key.PublicKey)
	server := httptest.NewServer(s.routes())
	t.Cleanup(server.Close)
	return &testEnv{app: app, server: server, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body, result interface{}) *http.Response {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	if result != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(result))
	}
	return resp
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/api/meeting/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/meeting/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAddMeetingUsesClaimsIdentity(t *testing.T) {
	env := newTestEnv(t)

	var result meetingResponse
	resp := env.do(t, http.MethodPost, "/api/meeting/add",
		map[string]string{"agenda": "Kickoff", "createBy": "someone-else"}, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Meeting created successfully", result.Message)
	require.Equal(t, "u-1", env.app.actingID)
	require.Equal(t, "u-1", result.Meeting.CreatedBy)
}

func TestAddMeetingValidationStatus(t *testing.T) {
	env := newTestEnv(t)

	var errResp ErrorResponse
	resp := env.do(t, http.MethodPost, "/api/meeting/add", map[string]string{"notes": "no agenda"}, &errResp)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, errResp.Error, "agenda")
}

func TestGetMeetingsFilter(t *testing.T) {
	env := newTestEnv(t)
	env.app.meetings["m-1"] = models.Meeting{ID: "m-1", CreatedBy: "u-1"}
	env.app.meetings["m-2"] = models.Meeting{ID: "m-2", CreatedBy: "u-2"}

	var meetings []models.EnrichedMeeting
	resp := env.do(t, http.MethodGet, "/api/meeting/?createBy=u-2", nil, &meetings)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, meetings, 1)
	require.Equal(t, "m-2", meetings[0].ID)
	require.Equal(t, "Jane Doe", meetings[0].CreatedByName)
}

func TestViewMeetingStatuses(t *testing.T) {
	env := newTestEnv(t)
	env.app.details["m-1"] = models.MeetingDetails{ID: "m-1", Agenda: "Demo"}

	var details models.MeetingDetails
	resp := env.do(t, http.MethodGet, "/api/meeting/view/m-1", nil, &details)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Demo", details.Agenda)

	resp = env.do(t, http.MethodGet, "/api/meeting/view/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditMeetingStatuses(t *testing.T) {
	env := newTestEnv(t)
	env.app.meetings["m-1"] = models.Meeting{ID: "m-1"}

	var result updateResponse
	resp := env.do(t, http.MethodPut, "/api/meeting/edit/m-1", map[string]string{"agenda": "Moved"}, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int64(1), result.Result.MatchedCount)

	resp = env.do(t, http.MethodPut, "/api/meeting/edit/nope", map[string]string{"agenda": "Moved"}, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteMeetingStatuses(t *testing.T) {
	env := newTestEnv(t)
	env.app.meetings["m-1"] = models.Meeting{ID: "m-1"}

	var result meetingResponse
	resp := env.do(t, http.MethodDelete, "/api/meeting/delete/m-1", nil, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, result.Meeting.Deleted)

	resp = env.do(t, http.MethodDelete, "/api/meeting/delete/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteManyStatuses(t *testing.T) {
	env := newTestEnv(t)

	var result updateResponse
	resp := env.do(t, http.MethodPost, "/api/meeting/deleteMany", []string{"m-1", "m-2"}, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "2 meetings deleted successfully", result.Message)

	resp = env.do(t, http.MethodPost, "/api/meeting/deleteMany", []string{}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/meeting/deleteMany", map[string]string{"bad": "shape"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
