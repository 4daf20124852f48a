package app

import (
	"context"
	"testing"

	"novedad_notification_service/internal/domain/assignment"
	"novedad_notification_service/internal/domain/novedad"
	idb "novedad_notification_service/internal/infra/database"
	"novedad_notification_service/internal/infra/database/memorydb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFixture struct {
	novedadRepo    *memorydb.NovedadRepository
	assignmentRepo *memorydb.AssignmentRepository
	recipientRepo  *memorydb.RecipientRepository
	resolver       *ResolverService
}

func newResolverFixture() *resolverFixture {
	nr := memorydb.NewNovedadRepository()
	ar := memorydb.NewAssignmentRepository()
	rr := memorydb.NewRecipientRepository()
	return &resolverFixture{
		novedadRepo:    nr,
		assignmentRepo: ar,
		recipientRepo:  rr,
		resolver:       NewResolverService(nr, ar, rr, newTestLogger()),
	}
}

func (f *resolverFixture) mustAssign(t *testing.T, puestoID, eventTypeID, recipientID int64) {
	t.Helper()
	a := &assignment.Assignment{PuestoID: puestoID, EventTypeID: eventTypeID, RecipientID: recipientID, IsActive: true}
	require.NoError(t, f.assignmentRepo.Create(context.Background(), a))
}

func (f *resolverFixture) mustIngest(t *testing.T, consecutive string, puestoID, eventTypeID int64) *novedad.Novedad {
	t.Helper()
	n := &novedad.Novedad{Consecutive: consecutive, PuestoID: puestoID, EventTypeID: eventTypeID}
	require.NoError(t, f.novedadRepo.Create(context.Background(), n))
	return n
}

func TestResolveDeduplicatesAndSkipsInactive(t *testing.T) {
	f := newResolverFixture()
	ctx := context.Background()

	recA := mustCreateRecipient(t, f.recipientRepo, "Ana", "ana@example.com")
	recB := mustCreateRecipient(t, f.recipientRepo, "Bruno", "bruno@example.com")
	recC := mustCreateRecipient(t, f.recipientRepo, "Carla", "carla@example.com")

	n := f.mustIngest(t, "1001", 7, 3)
	f.mustAssign(t, 7, 3, recA.ID)
	f.mustAssign(t, 7, 3, recB.ID)
	f.mustAssign(t, 7, 3, recC.ID)

	// B is deactivated after the assignment graph is in place; the historical
	// assignment row persists but B must not be notified.
	recB.IsActive = false
	require.NoError(t, f.recipientRepo.Update(ctx, recB))

	// C's email is reachable via a second recipient row (deactivated and
	// re-registered upstream), so two assignment rows point at the same
	// address: it must be notified exactly once.
	recC.IsActive = false
	require.NoError(t, f.recipientRepo.Update(ctx, recC))
	recC2 := mustCreateRecipient(t, f.recipientRepo, "Carla", "carla@example.com")
	f.mustAssign(t, 7, 3, recC2.ID)
	recC.IsActive = true
	require.NoError(t, f.recipientRepo.Update(ctx, recC))

	resolved, err := f.resolver.Resolve(ctx, n.ID)
	require.NoError(t, err)

	emails := make([]string, 0, len(resolved))
	for _, r := range resolved {
		emails = append(emails, r.Email)
	}
	assert.ElementsMatch(t, []string{"ana@example.com", "carla@example.com"}, emails)
	assert.Len(t, resolved, 2, "carla must be notified exactly once")
}

func TestResolveNoAssignmentsIsEmptyNotError(t *testing.T) {
	f := newResolverFixture()

	n := f.mustIngest(t, "2001", 4, 9)

	resolved, err := f.resolver.Resolve(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestResolveUnknownNovedad(t *testing.T) {
	f := newResolverFixture()

	_, err := f.resolver.Resolve(context.Background(), 999)
	assert.ErrorIs(t, err, idb.ErrNovedadNotFound)
}

func TestResolveSkipsDanglingRecipientReference(t *testing.T) {
	f := newResolverFixture()

	rec := mustCreateRecipient(t, f.recipientRepo, "Ana", "ana@example.com")
	n := f.mustIngest(t, "3001", 1, 2)
	f.mustAssign(t, 1, 2, rec.ID)
	f.mustAssign(t, 1, 2, 555) // No such recipient row

	resolved, err := f.resolver.Resolve(context.Background(), n.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "ana@example.com", resolved[0].Email)
}

func TestDeactivationRemovesRecipientFromResolution(t *testing.T) {
	f := newResolverFixture()
	ctx := context.Background()

	rec := mustCreateRecipient(t, f.recipientRepo, "Ana", "ana@example.com")
	n := f.mustIngest(t, "4001", 2, 2)
	f.mustAssign(t, 2, 2, rec.ID)

	resolved, err := f.resolver.Resolve(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)

	// The join is evaluated against current activity flags, so deactivating
	// the recipient removes them from subsequent resolutions even though the
	// assignment row persists.
	rec.IsActive = false
	require.NoError(t, f.recipientRepo.Update(ctx, rec))

	resolved, err = f.resolver.Resolve(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}
