package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/signtutor/internal/progress"
)

// Default notification window (hours of the day, inclusive)
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Scheduler periodically checks how many signs are due for review and pings
// the notifier so the user can be reminded to study.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     progress.Store
	notifier  Notifier
}

// Notifier receives due-review reminders.
type Notifier interface {
	NotifyDueReviews(count int) error
}

// New creates a new scheduler instance.
func New(store progress.Store, notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		store:     store,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks.
func (s *Scheduler) Start() {
	// Hourly check for due reviews
	s.scheduler.Every(1).Hour().Do(s.checkAndNotify)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndNotify counts due records and sends a reminder when inside the
// configured notification hours.
func (s *Scheduler) checkAndNotify() {
	currentHour := time.Now().Hour()

	startHour := DefaultNotificationStartHour
	endHour := DefaultNotificationEndHour

	if startHourStr := os.Getenv("NOTIFICATION_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("NOTIFICATION_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminder",
			currentHour, startHour, endHour)
		return
	}

	if err := s.RunManualCheck(); err != nil {
		log.Printf("Error checking due reviews: %v", err)
	}
}

// RunManualCheck forces a due-review check regardless of the hour window.
func (s *Scheduler) RunManualCheck() error {
	due, err := s.store.DueRecords(context.Background(), time.Now(), 0)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}
	return s.notifier.NotifyDueReviews(len(due))
}
