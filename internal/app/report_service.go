package app

import (
	"context"
	"fmt"
	"time"

	"novedad_notification_service/internal/domain/novedad"
	"novedad_notification_service/internal/domain/reporting"

	"github.com/sirupsen/logrus"
)

// ReportGenerator is the operation the scheduler drives for the daily chart.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context) (string, error)
}

// ReportService aggregates novedad counts per event type, renders them
// through the chart collaborator and uploads the image through the
// object-storage collaborator.
type ReportService struct {
	novedadRepo novedad.Repository
	renderer    reporting.ChartRenderer
	uploader    reporting.ObjectUploader
	logger      *logrus.Entry
}

func NewReportService(
	nr novedad.Repository,
	renderer reporting.ChartRenderer,
	uploader reporting.ObjectUploader,
	logger *logrus.Entry,
) *ReportService {
	return &ReportService{
		novedadRepo: nr,
		renderer:    renderer,
		uploader:    uploader,
		logger:      logger,
	}
}

// GenerateDailyReport builds the chart for the last 24 hours of novedades and
// returns the public URL of the uploaded image. An empty day produces no
// chart and no error.
func (s *ReportService) GenerateDailyReport(ctx context.Context) (string, error) {
	since := time.Now().Add(-24 * time.Hour)

	counts, err := s.novedadRepo.CountByEventTypeSince(ctx, since)
	if err != nil {
		return "", fmt.Errorf("failed to aggregate novedad counts: %w", err)
	}
	if len(counts) == 0 {
		s.logger.Info("No novedades in the last 24 hours, skipping daily chart")
		return "", nil
	}

	stats := reporting.Stats{
		Title:  fmt.Sprintf("Novedades %s", time.Now().Format("2006-01-02")),
		Counts: counts,
	}
	image, err := s.renderer.Render(ctx, stats)
	if err != nil {
		return "", fmt.Errorf("failed to render daily chart: %w", err)
	}

	objectName := fmt.Sprintf("reports/novedades-%s.png", time.Now().Format("2006-01-02"))
	url, err := s.uploader.Upload(ctx, objectName, image)
	if err != nil {
		return "", fmt.Errorf("failed to upload daily chart: %w", err)
	}

	s.logger.WithField("url", url).Info("Daily novedad chart published")
	return url, nil
}
