package app

import (
	"context"
	"io"
	"testing"

	"novedad_notification_service/internal/domain/recipient"
	"novedad_notification_service/internal/infra/database/memorydb"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// mustCreateRecipient seeds an active recipient and returns it.
func mustCreateRecipient(t *testing.T, repo *memorydb.RecipientRepository, name, email string) *recipient.Recipient {
	t.Helper()
	rec := &recipient.Recipient{Name: name, Email: email, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), rec))
	return rec
}
