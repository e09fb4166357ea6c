package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prolinkhq/meetings/pkg/models"
	"github.com/prolinkhq/meetings/pkg/pgstore"
)

var (
	errFetchMeetings = errors.New("failed to fetch meetings")
	errFetchMeeting  = errors.New("failed to fetch meeting")
	errDeleteMeeting = errors.New("failed to delete meeting")
)

type meetingResponse struct {
	Message string         `json:"message"`
	Meeting models.Meeting `json:"meeting"`
}

type updateResponse struct {
	Message string              `json:"message"`
	Result  models.UpdateResult `json:"result"`
}

func (s *Server) getMeetingsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var filter models.MeetingFilter
	if createBy := r.URL.Query().Get("createBy"); createBy != "" {
		filter.CreatedBy = &createBy
	}
	meetings, err := s.app.GetMeetings(ctx, filter)
	if err != nil {
		s.log.Warnf("err during getting meetings: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, errFetchMeetings)
		return
	}
	s.writeResponse(w, http.StatusOK, meetings)
}

func (s *Server) addMeetingHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := s.getClaims(ctx)
	if claims == nil {
		s.writeResponse(w, http.StatusUnauthorized, ErrUnauthorised)
		return
	}
	var req models.MeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	meeting, err := s.app.AddMeeting(ctx, req, claims.UserID)
	if err != nil {
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			s.log.Warnf("err during creating meeting: %v", err)
			err = errors.New("failed to create meeting")
		}
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	s.writeResponse(w, http.StatusOK, meetingResponse{Message: "Meeting created successfully", Meeting: meeting})
}

func (s *Server) viewMeetingHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	meeting, err := s.app.GetMeeting(ctx, id)
	switch {
	case errors.Is(err, pgstore.ErrMeetingNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.log.Warnf("err during getting meeting %s: %v", id, err)
		s.writeResponse(w, http.StatusInternalServerError, errFetchMeeting)
		return
	}
	s.writeResponse(w, http.StatusOK, meeting)
}

func (s *Server) editMeetingHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	var patch models.MeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.app.UpdateMeeting(ctx, id, patch)
	switch {
	case errors.Is(err, pgstore.ErrMeetingNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.log.Warnf("err during updating meeting %s: %v", id, err)
		s.writeResponse(w, http.StatusBadRequest, errors.New("failed to update meeting"))
		return
	}
	s.writeResponse(w, http.StatusOK, updateResponse{Message: "Meeting updated successfully", Result: result})
}

func (s *Server) deleteMeetingHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	meeting, err := s.app.DeleteMeeting(ctx, id)
	switch {
	case errors.Is(err, pgstore.ErrMeetingNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.log.Warnf("err during deleting meeting %s: %v", id, err)
		s.writeResponse(w, http.StatusInternalServerError, errDeleteMeeting)
		return
	}
	s.writeResponse(w, http.StatusOK, meetingResponse{Message: "Meeting deleted successfully", Meeting: meeting})
}

func (s *Server) deleteManyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		s.writeResponse(w, http.StatusBadRequest, errors.New("please provide valid meeting ids"))
		return
	}
	count, err := s.app.DeleteMeetings(ctx, ids)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			s.writeResponse(w, http.StatusBadRequest, errors.New("please provide valid meeting ids"))
			return
		}
		s.log.Warnf("err during deleting meetings: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, errDeleteMeeting)
		return
	}
	s.writeResponse(w, http.StatusOK, updateResponse{
		Message: fmt.Sprintf("%d meetings deleted successfully", count),
		Result:  models.UpdateResult{MatchedCount: count, ModifiedCount: count},
	})
}

func (s *Server) writeResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if x, ok := data.(error); ok {
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: x.Error()}); err != nil {
			s.log.Warnf("err during encoding error: %v", err)
		}
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warnf("err during encoding response: %v", err)
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
