package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prolinkhq/meetings/pkg/models"
)

const (
	pollInterval   = time.Minute
	reminderWindow = time.Hour
)

type Store interface {
	MeetingsDueSoon(ctx context.Context, within time.Duration) ([]models.Meeting, error)
	MarkNotified(ctx context.Context, id string) error
}

type Notifier interface {
	Notify(ctx context.Context, message string, userID string) error
}

// Worker reminds meeting creators shortly before their meetings start.
type Worker struct {
	log      *logrus.Entry
	store    Store
	notifier Notifier
}

func New(log *logrus.Logger, store Store, notifier Notifier) *Worker {
	return &Worker{
		log:      log.WithField("component", "worker"),
		store:    store,
		notifier: notifier,
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if err := w.remind(ctx); err != nil {
			w.log.Errorf("err sending reminders: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) remind(ctx context.Context) error {
	meetings, err := w.store.MeetingsDueSoon(ctx, reminderWindow)
	if err != nil {
		return fmt.Errorf("err getting due meetings: %w", err)
	}
	for _, meeting := range meetings {
		msg := fmt.Sprintf("meeting %q starts at %s", meeting.Agenda, meeting.DateTime.Format(time.RFC3339))
		if err = w.notifier.Notify(ctx, msg, meeting.CreatedBy); err != nil {
			return fmt.Errorf("err notifying about meeting %s: %w", meeting.ID, err)
		}
		if err = w.store.MarkNotified(ctx, meeting.ID); err != nil {
			return fmt.Errorf("err marking meeting %s notified: %w", meeting.ID, err)
		}
	}
	return nil
}
