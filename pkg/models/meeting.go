package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Related declares which attendee list is semantically active on a meeting.
type Related string

const (
	RelatedContact Related = `Contact`
	RelatedLead    Related = `Lead`
)

// IDList is a list of referenced record ids, stored as a jsonb column.
type IDList []string

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return []byte(`[]`), nil
	}
	return json.Marshal(l)
}

func (l *IDList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into IDList", src)
	}
}

type MeetingRequest struct {
	Agenda        *string    `json:"agenda" db:"agenda"`
	DateTime      *time.Time `json:"dateTime" db:"date_time"`
	Location      *string    `json:"location" db:"location"`
	Notes         *string    `json:"notes" db:"notes"`
	Related       *Related   `json:"related" db:"related"`
	Attendees     *IDList    `json:"attendes" db:"attendes"`
	AttendeesLead *IDList    `json:"attendesLead" db:"attendes_lead"`
	CreatedBy     *string    `json:"createBy" db:"create_by"`
}

type Meeting struct {
	ID            string    `json:"id" db:"id"`
	Agenda        string    `json:"agenda" db:"agenda"`
	DateTime      time.Time `json:"dateTime" db:"date_time"`
	Location      string    `json:"location" db:"location"`
	Notes         string    `json:"notes" db:"notes"`
	Related       Related   `json:"related" db:"related"`
	Attendees     IDList    `json:"attendes" db:"attendes"`
	AttendeesLead IDList    `json:"attendesLead" db:"attendes_lead"`
	CreatedBy     string    `json:"createBy" db:"create_by"`
	Deleted       bool      `json:"deleted" db:"deleted"`
	Timestamp     time.Time `json:"timestamp" db:"created_at"`
	Notified      bool      `json:"-" db:"notified"`
}

// ActiveAttendees flattens the related tag into the attendee list it selects.
func (m Meeting) ActiveAttendees() IDList {
	if m.Related == RelatedLead {
		return m.AttendeesLead
	}
	return m.Attendees
}

// MeetingFilter scopes list queries. Access scoping is the caller's decision.
type MeetingFilter struct {
	CreatedBy *string
}

// EnrichedMeeting is a list row with the creator resolved to a display name.
type EnrichedMeeting struct {
	Meeting
	CreatedByName string `json:"createdByName"`
}

// MeetingDetails is a single meeting with its references resolved to the
// projected related records. A nil CreatedBy means the creator lookup failed
// or the user no longer exists.
type MeetingDetails struct {
	ID            string    `json:"id"`
	Agenda        string    `json:"agenda"`
	DateTime      time.Time `json:"dateTime"`
	Location      string    `json:"location"`
	Notes         string    `json:"notes"`
	Related       Related   `json:"related"`
	Attendees     []Contact `json:"attendes"`
	AttendeesLead []Lead    `json:"attendesLead"`
	CreatedBy     *User     `json:"createBy"`
	Deleted       bool      `json:"deleted"`
	Timestamp     time.Time `json:"timestamp"`
}

// UpdateResult mirrors the bulk-write acknowledgment the client expects.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}
