package app

import (
	"context"
	"testing"

	idb "novedad_notification_service/internal/infra/database"
	"novedad_notification_service/internal/infra/database/memorydb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignmentService() (*AssignmentService, *memorydb.AssignmentRepository, *memorydb.RecipientRepository) {
	ar := memorydb.NewAssignmentRepository()
	rr := memorydb.NewRecipientRepository()
	return NewAssignmentService(ar, rr), ar, rr
}

func TestCreateAssignment(t *testing.T) {
	svc, _, rr := newAssignmentService()
	ctx := context.Background()

	rec := mustCreateRecipient(t, rr, "Ana", "ana@example.com")

	created, err := svc.CreateAssignment(ctx, 7, 3, rec.ID)
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.NotZero(t, created.ID)
}

func TestCreateAssignmentRejectsUnknownRecipient(t *testing.T) {
	svc, _, _ := newAssignmentService()

	_, err := svc.CreateAssignment(context.Background(), 7, 3, 99)
	assert.ErrorIs(t, err, idb.ErrRecipientNotFound)
}

func TestCreateAssignmentRejectsInactiveRecipient(t *testing.T) {
	svc, _, rr := newAssignmentService()
	ctx := context.Background()

	rec := mustCreateRecipient(t, rr, "Ana", "ana@example.com")
	rec.IsActive = false
	require.NoError(t, rr.Update(ctx, rec))

	_, err := svc.CreateAssignment(ctx, 7, 3, rec.ID)
	assert.ErrorIs(t, err, ErrRecipientInactive)
}

func TestCreateAssignmentRejectsActiveDuplicateTriple(t *testing.T) {
	svc, _, rr := newAssignmentService()
	ctx := context.Background()

	rec := mustCreateRecipient(t, rr, "Ana", "ana@example.com")

	_, err := svc.CreateAssignment(ctx, 7, 3, rec.ID)
	require.NoError(t, err)

	_, err = svc.CreateAssignment(ctx, 7, 3, rec.ID)
	assert.ErrorIs(t, err, ErrAssignmentExists)

	// A different event type is a different routing rule.
	_, err = svc.CreateAssignment(ctx, 7, 4, rec.ID)
	assert.NoError(t, err)
}

func TestDeleteAssignmentDistinguishesNotFound(t *testing.T) {
	svc, _, rr := newAssignmentService()
	ctx := context.Background()

	rec := mustCreateRecipient(t, rr, "Ana", "ana@example.com")
	created, err := svc.CreateAssignment(ctx, 7, 3, rec.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), idb.ErrAssignmentNotFound)
}

func TestListAssignmentsFiltersByPuesto(t *testing.T) {
	svc, _, rr := newAssignmentService()
	ctx := context.Background()

	recA := mustCreateRecipient(t, rr, "Ana", "ana@example.com")
	recB := mustCreateRecipient(t, rr, "Bruno", "bruno@example.com")

	_, err := svc.CreateAssignment(ctx, 7, 3, recA.ID)
	require.NoError(t, err)
	_, err = svc.CreateAssignment(ctx, 8, 3, recB.ID)
	require.NoError(t, err)

	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, recA.ID, filtered[0].RecipientID)
}
