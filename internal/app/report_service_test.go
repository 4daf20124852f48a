package app

import (
	"context"
	"testing"

	"novedad_notification_service/internal/domain/novedad"
	"novedad_notification_service/internal/domain/reporting"
	"novedad_notification_service/internal/infra/database/memorydb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	lastStats reporting.Stats
}

func (f *fakeRenderer) Render(_ context.Context, stats reporting.Stats) ([]byte, error) {
	f.lastStats = stats
	return []byte("png-bytes"), nil
}

type fakeUploader struct {
	lastObject string
	lastData   []byte
}

func (f *fakeUploader) Upload(_ context.Context, objectName string, data []byte) (string, error) {
	f.lastObject = objectName
	f.lastData = data
	return "https://cdn.example.com/" + objectName, nil
}

func TestGenerateDailyReport(t *testing.T) {
	repo := memorydb.NewNovedadRepository()
	repo.SeedEventType(novedad.EventType{ID: 3, Name: "Incidente", ReportTypeID: 1})
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &novedad.Novedad{Consecutive: "1001", PuestoID: 7, EventTypeID: 3}))
	require.NoError(t, repo.Create(ctx, &novedad.Novedad{Consecutive: "1002", PuestoID: 8, EventTypeID: 3}))

	renderer := &fakeRenderer{}
	uploader := &fakeUploader{}
	svc := NewReportService(repo, renderer, uploader, newTestLogger())

	url, err := svc.GenerateDailyReport(ctx)
	require.NoError(t, err)
	assert.Contains(t, url, "https://cdn.example.com/reports/novedades-")
	assert.Equal(t, 2, renderer.lastStats.Counts["Incidente"])
	assert.Equal(t, []byte("png-bytes"), uploader.lastData)
}

func TestGenerateDailyReportSkipsEmptyDay(t *testing.T) {
	repo := memorydb.NewNovedadRepository()
	renderer := &fakeRenderer{}
	uploader := &fakeUploader{}
	svc := NewReportService(repo, renderer, uploader, newTestLogger())

	url, err := svc.GenerateDailyReport(context.Background())
	require.NoError(t, err)
	assert.Empty(t, url)
	assert.Empty(t, uploader.lastObject, "no chart is uploaded for an empty day")
}
