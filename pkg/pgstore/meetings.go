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

func (s *Store) CreateMeeting(ctx context.Context, meeting models.Meeting) (models.Meeting, error) {
	defer s.observe("CreateMeeting", time.Now())
	var created models.Meeting
	query := `
INSERT INTO meetings (id, agenda, date_time, location, notes, related, attendes, attendes_lead, create_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING *;`
	id := uuid.New().String()
	var err error
	for i := 0; i < retries; i++ {
		err = s.db.QueryRowxContext(ctx, query,
			id, meeting.Agenda, meeting.DateTime, meeting.Location, meeting.Notes,
			meeting.Related, meeting.Attendees, meeting.AttendeesLead, meeting.CreatedBy, meeting.Timestamp).
			StructScan(&created)
		if err != nil {
			continue
		}
		return created, nil
	}
	return models.Meeting{}, s.fail("CreateMeeting", fmt.Errorf("err creating meeting: %w", err))
}

func (s *Store) GetMeetings(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, error) {
	defer s.observe("GetMeetings", time.Now())
	query := `SELECT * FROM meetings WHERE NOT deleted`
	args := make([]interface{}, 0, 1)
	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		query += ` AND create_by = $1`
	}
	query += ` ORDER BY created_at DESC`
	var meetings []models.Meeting
	var err error
	for i := 0; i < retries; i++ {
		if err = s.db.SelectContext(ctx, &meetings, query, args...); err != nil {
			continue
		}
		return meetings, nil
	}
	return nil, s.fail("GetMeetings", fmt.Errorf("err getting meetings: %w", err))
}

func (s *Store) GetMeeting(ctx context.Context, id string) (models.Meeting, error) {
	defer s.observe("GetMeeting", time.Now())
	var meeting models.Meeting
	query := `
SELECT * FROM meetings
WHERE id = $1 AND NOT deleted;`
	var err error
	for i := 0; i < retries; i++ {
		err = s.db.GetContext(ctx, &meeting, query, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Meeting{}, ErrMeetingNotFound
		case err != nil:
			continue
		}
		return meeting, nil
	}
	return models.Meeting{}, s.fail("GetMeeting", fmt.Errorf("err getting meeting %s: %w", id, err))
}

// UpdateMeeting merges the set fields of patch into the stored record.
// It matches soft-deleted records too, mirroring the collection's historical
// update behavior.
func (s *Store) UpdateMeeting(ctx context.Context, id string, patch models.MeetingRequest) (models.Meeting, error) {
	defer s.observe("UpdateMeeting", time.Now())
	var updated models.Meeting
	query := `
UPDATE meetings
SET agenda = COALESCE($2, agenda),
	date_time = COALESCE($3, date_time),
	location = COALESCE($4, location),
	notes = COALESCE($5, notes),
	related = COALESCE($6, related),
	attendes = COALESCE($7, attendes),
	attendes_lead = COALESCE($8, attendes_lead),
	create_by = COALESCE($9, create_by)
WHERE id = $1
RETURNING *;`
	var err error
	for i := 0; i < retries; i++ {
		err = s.db.QueryRowxContext(ctx, query,
			id, patch.Agenda, patch.DateTime, patch.Location, patch.Notes,
			patch.Related, patch.Attendees, patch.AttendeesLead, patch.CreatedBy).
			StructScan(&updated)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Meeting{}, ErrMeetingNotFound
		case err != nil:
			continue
		}
		return updated, nil
	}
	return models.Meeting{}, s.fail("UpdateMeeting", fmt.Errorf("err updating meeting %s: %w", id, err))
}

// DeleteMeeting flips the soft-delete flag. Re-deleting an already deleted
// meeting succeeds and returns the record unchanged.
func (s *Store) DeleteMeeting(ctx context.Context, id string) (models.Meeting, error) {
	defer s.observe("DeleteMeeting", time.Now())
	var deleted models.Meeting
	query := `
UPDATE meetings
SET deleted = true
WHERE id = $1
RETURNING *;`
	var err error
	for i := 0; i < retries; i++ {
		err = s.db.QueryRowxContext(ctx, query, id).StructScan(&deleted)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Meeting{}, ErrMeetingNotFound
		case err != nil:
			continue
		}
		return deleted, nil
	}
	return models.Meeting{}, s.fail("DeleteMeeting", fmt.Errorf("err deleting meeting %s: %w", id, err))
}

// DeleteMeetings soft-deletes every matching live record and reports how many
// actually changed. Unmatched and already-deleted ids are skipped silently.
func (s *Store) DeleteMeetings(ctx context.Context, ids []string) (int64, error) {
	defer s.observe("DeleteMeetings", time.Now())
	query := `
UPDATE meetings
SET deleted = true
WHERE id = ANY($1) AND NOT deleted;`
	var err error
	for i := 0; i < retries; i++ {
		var result sql.Result
		if result, err = s.db.ExecContext(ctx, query, ids); err != nil {
			continue
		}
		return result.RowsAffected()
	}
	return 0, s.fail("DeleteMeetings", fmt.Errorf("err deleting meetings: %w", err))
}

func (s *Store) MeetingsDueSoon(ctx context.Context, within time.Duration) ([]models.Meeting, error) {
	defer s.observe("MeetingsDueSoon", time.Now())
	query := `
SELECT * FROM meetings
WHERE NOT deleted
  AND NOT notified
  AND date_time BETWEEN now() AND now() + make_interval(secs => $1);`
	var meetings []models.Meeting
	var err error
	for i := 0; i < retries; i++ {
		if err = s.db.SelectContext(ctx, &meetings, query, within.Seconds()); err != nil {
			continue
		}
		return meetings, nil
	}
	return nil, s.fail("MeetingsDueSoon", fmt.Errorf("err getting due meetings: %w", err))
}

func (s *Store) MarkNotified(ctx context.Context, id string) error {
	defer s.observe("MarkNotified", time.Now())
	var err error
	for i := 0; i < retries; i++ {
		if _, err = s.db.ExecContext(ctx, `UPDATE meetings SET notified = true WHERE id = $1`, id); err != nil {
			continue
		}
		return nil
	}
	return s.fail("MarkNotified", fmt.Errorf("err marking meeting %s notified: %w", id, err))
}
