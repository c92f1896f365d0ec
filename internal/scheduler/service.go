package scheduler

import (
	"context"

	"github.com/cruxlabs/cruxd/internal/crisis"
	"github.com/cruxlabs/cruxd/internal/notifications"
	"github.com/cruxlabs/cruxd/internal/scanner"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Service runs the optional periodic crisis sweep: scan the feed, detect
// crisis keywords, and notify the configured channels on a hit. An empty
// schedule disables it entirely.
type Service struct {
	schedule string
	scanner  *scanner.Scanner
	detector *crisis.Detector
	notifier notifications.NotificationInterface
	cron     *cron.Cron
}

// NewService creates a new scheduler service
func NewService(schedule string, sc *scanner.Scanner, detector *crisis.Detector, notifier notifications.NotificationInterface) *Service {
	return &Service{
		schedule: schedule,
		scanner:  sc,
		detector: detector,
		notifier: notifier,
		cron:     cron.New(),
	}
}

// Start begins the scheduled sweep. It is a no-op without a schedule.
func (s *Service) Start() error {
	if s.schedule == "" {
		logrus.Info("No crisis sweep schedule configured, scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.sweep)
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with crisis sweep schedule %q", s.schedule)
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}

func (s *Service) sweep() {
	logrus.Info("Starting scheduled crisis sweep")

	claims := s.scanner.Scan(context.Background(), "")
	result := s.detector.Detect(claims)
	if !result.CrisisDetected {
		logrus.Info("Crisis sweep found no matches")
		return
	}

	logrus.Infof("Crisis sweep flagged %d claims", len(result.Alerts))
	if err := s.notifier.SendCrisisAlerts(result); err != nil {
		logrus.Errorf("Crisis sweep notification failed: %v", err)
	}
}
