package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/prolinkhq/meetings/pkg/models"
)

const eventDuration = time.Hour

// Calendar mirrors scheduled meetings into a Google Calendar.
type Calendar struct {
	log        *logrus.Entry
	srv        *calendar.Service
	calendarID string
}

func New(ctx context.Context, log *logrus.Logger, credentialsPath, calendarID string) (*Calendar, error) {
	srv, err := calendarService(ctx, credentialsPath)
	if err != nil {
		return nil, err
	}
	return &Calendar{
		log:        log.WithField("component", "calendar"),
		srv:        srv,
		calendarID: calendarID,
	}, nil
}

func (c *Calendar) AddEvent(_ context.Context, meeting models.Meeting) error {
	event := &calendar.Event{
		Summary:     meeting.Agenda,
		Location:    meeting.Location,
		Description: meeting.Notes,
		Start:       &calendar.EventDateTime{DateTime: meeting.DateTime.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: meeting.DateTime.Add(eventDuration).Format(time.RFC3339)},
	}
	created, err := c.srv.Events.Insert(c.calendarID, event).Do()
	if err != nil {
		return fmt.Errorf("err inserting event: %w", err)
	}
	c.log.Debugf("meeting %s synced to calendar event %s", meeting.ID, created.Id)
	return nil
}

func calendarService(ctx context.Context, credentialsPath string) (*calendar.Service, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("err reading client secret file: %w", err)
	}

	// If modifying these scopes, delete your previously saved token.json.
	config, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("err parsing client secret file: %w", err)
	}
	client, err := getClient(config)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("err creating calendar client: %w", err)
	}
	return srv, nil
}

// The file token.json stores the user's access and refresh tokens, created
// by the initial authorization flow.
func getClient(config *oauth2.Config) (*http.Client, error) {
	tokFile := "token.json"
	tok, err := tokenFromFile(tokFile)
	if err != nil {
		tok, err = getTokenFromWeb(config)
		if err != nil {
			return nil, err
		}
		if err = saveToken(tokFile, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(context.Background(), tok), nil
}

func getTokenFromWeb(config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("err reading authorization code: %w", err)
	}

	tok, err := config.Exchange(context.TODO(), authCode)
	if err != nil {
		return nil, fmt.Errorf("err retrieving token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("err caching oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
