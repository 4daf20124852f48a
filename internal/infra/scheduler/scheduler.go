package scheduler

import (
	"context"
	"time"

	"novedad_notification_service/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// NotificationScheduler drives the periodic jobs: dispatching pending
// novedades through the mailer collaborator and publishing the daily
// statistics chart.
type NotificationScheduler struct {
	cronEngine          *cron.Cron
	dispatcher          app.Dispatcher
	reports             app.ReportGenerator
	logger              *logrus.Entry
	cronSpecDispatch    string
	cronSpecDailyReport string
}

func NewNotificationScheduler(
	dispatcher app.Dispatcher,
	reports app.ReportGenerator,
	logger *logrus.Entry,
	cronSpecDispatch string, // e.g., "* * * * *" (every minute)
	cronSpecDailyReport string, // e.g., "0 6 * * *" (6:00 AM daily)
) *NotificationScheduler {
	return &NotificationScheduler{
		cronEngine:          cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		dispatcher:          dispatcher,
		reports:             reports,
		logger:              logger,
		cronSpecDispatch:    cronSpecDispatch,
		cronSpecDailyReport: cronSpecDailyReport,
	}
}

func (s *NotificationScheduler) Start() {
	s.logger.Info("Starting notification scheduler...")

	// Job for dispatching pending novedades
	_, err := s.cronEngine.AddFunc(s.cronSpecDispatch, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := s.dispatcher.DispatchPending(ctx); err != nil {
			s.logger.WithError(err).Error("Error during pending novedad dispatch")
		}
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add dispatch cron job")
	}

	// Job for the daily statistics chart
	_, err = s.cronEngine.AddFunc(s.cronSpecDailyReport, func() {
		s.logger.Info("Cron job triggered for daily novedad report")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.reports.GenerateDailyReport(ctx); err != nil {
			s.logger.WithError(err).Error("Error during daily report generation")
		}
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add daily report cron job")
	}

	s.cronEngine.Start()
	s.logger.Info("Notification scheduler started with jobs.")
}

func (s *NotificationScheduler) Stop() {
	s.logger.Info("Stopping notification scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Notification scheduler gracefully stopped.")
}
