package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prolinkhq/meetings/pkg/models"
)

type Notifier interface {
	Notify(ctx context.Context, message string, userID string) error
}

// Calendar mirrors created meetings into an external calendar, best effort.
type Calendar interface {
	AddEvent(ctx context.Context, meeting models.Meeting) error
}

type Store interface {
	CreateMeeting(ctx context.Context, meeting models.Meeting) (models.Meeting, error)
	GetMeetings(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, error)
	GetMeeting(ctx context.Context, id string) (models.Meeting, error)
	UpdateMeeting(ctx context.Context, id string, patch models.MeetingRequest) (models.Meeting, error)
	DeleteMeeting(ctx context.Context, id string) (models.Meeting, error)
	DeleteMeetings(ctx context.Context, ids []string) (int64, error)
	RefStore
}

type MeetingService struct {
	log      *logrus.Entry
	store    Store
	resolver *Resolver
	notifier Notifier
	calendar Calendar
}

func NewMeetingService(log *logrus.Logger, store Store, notifier Notifier, calendar Calendar) *MeetingService {
	s := MeetingService{
		log:      log.WithField("component", "service"),
		store:    store,
		resolver: NewResolver(log, store),
		notifier: notifier,
		calendar: calendar,
	}
	return &s
}

// AddMeeting persists a new meeting. The creation timestamp is stamped here
// and the creator is forced to the acting user, whatever the request carried.
func (s *MeetingService) AddMeeting(ctx context.Context, req models.MeetingRequest, actingUserID string) (models.Meeting, error) {
	if err := validateMeeting(req); err != nil {
		return models.Meeting{}, err
	}
	meeting := models.Meeting{
		Agenda:        *req.Agenda,
		DateTime:      *req.DateTime,
		Location:      strValue(req.Location),
		Notes:         strValue(req.Notes),
		Related:       *req.Related,
		Attendees:     listValue(req.Attendees),
		AttendeesLead: listValue(req.AttendeesLead),
		CreatedBy:     actingUserID,
		Timestamp:     time.Now().UTC(),
	}
	created, err := s.store.CreateMeeting(ctx, meeting)
	if err != nil {
		return models.Meeting{}, fmt.Errorf("err creating meeting: %w", err)
	}
	if err = s.notifier.Notify(ctx, fmt.Sprintf("meeting %q scheduled for %s", created.Agenda, created.DateTime.Format(time.RFC3339)), created.CreatedBy); err != nil {
		s.log.Errorf("err notifying about meeting %s: %v", created.ID, err)
	}
	if s.calendar != nil {
		if err = s.calendar.AddEvent(ctx, created); err != nil {
			s.log.Errorf("err syncing meeting %s to calendar: %v", created.ID, err)
		}
	}
	return created, nil
}

// GetMeetings lists live meetings newest first, each carrying the resolved
// creator display name.
func (s *MeetingService) GetMeetings(ctx context.Context, filter models.MeetingFilter) ([]models.EnrichedMeeting, error) {
	meetings, err := s.store.GetMeetings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("err getting meetings: %w", err)
	}
	ids := make([]string, 0, len(meetings))
	for _, m := range meetings {
		if m.CreatedBy != "" {
			ids = append(ids, m.CreatedBy)
		}
	}
	names := s.resolver.UserNames(ctx, ids)
	enriched := make([]models.EnrichedMeeting, 0, len(meetings))
	for _, m := range meetings {
		name, ok := names[m.CreatedBy]
		if !ok {
			name = UnknownUser
		}
		enriched = append(enriched, models.EnrichedMeeting{Meeting: m, CreatedByName: name})
	}
	return enriched, nil
}

// GetMeeting returns one live meeting with creator and attendee references
// resolved. The three resolutions are independent: any of them failing
// degrades its own field and nothing else.
func (s *MeetingService) GetMeeting(ctx context.Context, id string) (models.MeetingDetails, error) {
	meeting, err := s.store.GetMeeting(ctx, id)
	if err != nil {
		return models.MeetingDetails{}, err
	}
	details := models.MeetingDetails{
		ID:            meeting.ID,
		Agenda:        meeting.Agenda,
		DateTime:      meeting.DateTime,
		Location:      meeting.Location,
		Notes:         meeting.Notes,
		Related:       meeting.Related,
		Attendees:     []models.Contact{},
		AttendeesLead: []models.Lead{},
		Deleted:       meeting.Deleted,
		Timestamp:     meeting.Timestamp,
	}
	if meeting.CreatedBy != "" {
		details.CreatedBy = s.resolver.User(ctx, meeting.CreatedBy)
	}
	if len(meeting.Attendees) > 0 {
		details.Attendees = s.resolver.Contacts(ctx, meeting.Attendees)
	}
	if len(meeting.AttendeesLead) > 0 {
		details.AttendeesLead = s.resolver.Leads(ctx, meeting.AttendeesLead)
	}
	return details, nil
}

// UpdateMeeting overwrites the fields present in patch. Fields the patch
// omits keep their stored values; the store layer does not shield create_by.
func (s *MeetingService) UpdateMeeting(ctx context.Context, id string, patch models.MeetingRequest) (models.UpdateResult, error) {
	if _, err := s.store.UpdateMeeting(ctx, id, patch); err != nil {
		return models.UpdateResult{}, err
	}
	return models.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *MeetingService) DeleteMeeting(ctx context.Context, id string) (models.Meeting, error) {
	meeting, err := s.store.DeleteMeeting(ctx, id)
	if err != nil {
		return models.Meeting{}, err
	}
	if err = s.notifier.Notify(ctx, fmt.Sprintf("meeting %q deleted", meeting.Agenda), meeting.CreatedBy); err != nil {
		s.log.Errorf("err notifying about meeting %s: %v", meeting.ID, err)
	}
	return meeting, nil
}

func (s *MeetingService) DeleteMeetings(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, &models.ValidationError{Fields: []string{"ids"}}
	}
	count, err := s.store.DeleteMeetings(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("err deleting meetings: %w", err)
	}
	return count, nil
}

func validateMeeting(req models.MeetingRequest) error {
	var missing []string
	if req.Agenda == nil || *req.Agenda == "" {
		missing = append(missing, "agenda")
	}
	if req.DateTime == nil {
		missing = append(missing, "dateTime")
	}
	if req.Related == nil || *req.Related == "" {
		missing = append(missing, "related")
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}
	return nil
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func listValue(l *models.IDList) models.IDList {
	if l == nil {
		return models.IDList{}
	}
	return *l
}
