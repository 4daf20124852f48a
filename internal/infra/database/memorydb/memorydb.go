// Package memorydb provides in-memory implementations of the domain
// repositories with the same sentinel-error semantics as the Postgres
// implementations. The test suites run against these instead of a live
// database.
package memorydb

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"novedad_notification_service/internal/domain/assignment"
	"novedad_notification_service/internal/domain/delivery"
	"novedad_notification_service/internal/domain/novedad"
	"novedad_notification_service/internal/domain/recipient"
	idb "novedad_notification_service/internal/infra/database"
)

// RecipientRepository is an in-memory recipient.Repository.
type RecipientRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*recipient.Recipient
}

func NewRecipientRepository() *RecipientRepository {
	return &RecipientRepository{rows: make(map[int64]*recipient.Recipient)}
}

func (r *RecipientRepository) Create(_ context.Context, rec *recipient.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.IsActive {
		for _, row := range r.rows {
			if row.IsActive && strings.EqualFold(row.Email, rec.Email) {
				return idb.ErrDuplicateRecipientEmail
			}
		}
	}

	r.nextID++
	rec.ID = r.nextID
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	clone := *rec
	r.rows[rec.ID] = &clone
	return nil
}

func (r *RecipientRepository) GetByID(_ context.Context, id int64) (*recipient.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, idb.ErrRecipientNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *RecipientRepository) SearchByEmail(_ context.Context, fragment string, limit int) ([]*recipient.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*recipient.Recipient, 0)
	needle := strings.ToLower(fragment)
	for _, row := range r.rows {
		if row.IsActive && strings.Contains(strings.ToLower(row.Email), needle) {
			clone := *row
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *RecipientRepository) ExistsActiveEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.IsActive && row.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *RecipientRepository) Update(_ context.Context, rec *recipient.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[rec.ID]
	if !ok {
		return idb.ErrRecipientNotFound
	}
	row.Name = rec.Name
	row.Email = rec.Email
	row.IsActive = rec.IsActive
	row.UpdatedAt = time.Now()
	rec.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *RecipientRepository) ListActive(_ context.Context) ([]*recipient.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := make([]*recipient.Recipient, 0)
	for _, row := range r.rows {
		if row.IsActive {
			clone := *row
			active = append(active, &clone)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Email < active[j].Email })
	return active, nil
}

// NovedadRepository is an in-memory novedad.Repository.
type NovedadRepository struct {
	mu         sync.Mutex
	nextID     int64
	rows       map[int64]*novedad.Novedad
	eventTypes map[int64]*novedad.EventType
}

func NewNovedadRepository() *NovedadRepository {
	return &NovedadRepository{
		rows:       make(map[int64]*novedad.Novedad),
		eventTypes: make(map[int64]*novedad.EventType),
	}
}

// SeedEventType registers an event type for lookups and aggregation.
func (r *NovedadRepository) SeedEventType(et novedad.EventType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := et
	r.eventTypes[et.ID] = &clone
}

func (r *NovedadRepository) Create(_ context.Context, n *novedad.Novedad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.Consecutive == n.Consecutive {
			return idb.ErrDuplicateConsecutive
		}
	}

	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	clone := *n
	r.rows[n.ID] = &clone
	return nil
}

func (r *NovedadRepository) GetByID(_ context.Context, id int64) (*novedad.Novedad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, idb.ErrNovedadNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *NovedadRepository) FilterExistingConsecutives(_ context.Context, candidates []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	known := make(map[string]bool, len(r.rows))
	for _, row := range r.rows {
		known[row.Consecutive] = true
	}

	existing := make([]string, 0)
	for _, c := range candidates {
		if known[c] {
			existing = append(existing, c)
		}
	}
	return existing, nil
}

func (r *NovedadRepository) ListUnnotified(_ context.Context, limit int) ([]*novedad.Novedad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make([]*novedad.Novedad, 0)
	for _, row := range r.rows {
		if !row.NotifiedAt.Valid {
			clone := *row
			pending = append(pending, &clone)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *NovedadRepository) MarkNotified(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return idb.ErrNovedadNotFound
	}
	row.NotifiedAt.Time = at
	row.NotifiedAt.Valid = true
	return nil
}

func (r *NovedadRepository) CountByEventTypeSince(_ context.Context, since time.Time) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[string]int)
	for _, row := range r.rows {
		if row.CreatedAt.Before(since) {
			continue
		}
		et, ok := r.eventTypes[row.EventTypeID]
		if !ok {
			continue
		}
		counts[et.Name]++
	}
	return counts, nil
}

func (r *NovedadRepository) ListEventTypes(_ context.Context, reportTypeID int64) ([]*novedad.EventType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]*novedad.EventType, 0)
	for _, et := range r.eventTypes {
		if reportTypeID > 0 && et.ReportTypeID != reportTypeID {
			continue
		}
		clone := *et
		types = append(types, &clone)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

// AssignmentRepository is an in-memory assignment.Repository.
type AssignmentRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*assignment.Assignment
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{rows: make(map[int64]*assignment.Assignment)}
}

func (r *AssignmentRepository) Create(_ context.Context, a *assignment.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.IsActive {
		for _, row := range r.rows {
			if row.IsActive &&
				row.PuestoID == a.PuestoID &&
				row.EventTypeID == a.EventTypeID &&
				row.RecipientID == a.RecipientID {
				return idb.ErrDuplicateAssignment
			}
		}
	}

	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	clone := *a
	r.rows[a.ID] = &clone
	return nil
}

func (r *AssignmentRepository) List(_ context.Context, puestoID int64) ([]*assignment.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*assignment.Assignment, 0)
	for _, row := range r.rows {
		if puestoID > 0 && row.PuestoID != puestoID {
			continue
		}
		clone := *row
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (r *AssignmentRepository) ListActiveFor(_ context.Context, puestoID, eventTypeID int64) ([]*assignment.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*assignment.Assignment, 0)
	for _, row := range r.rows {
		if row.IsActive && row.PuestoID == puestoID && row.EventTypeID == eventTypeID {
			clone := *row
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (r *AssignmentRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return idb.ErrAssignmentNotFound
	}
	delete(r.rows, id)
	return nil
}

// DeliveryRepository is an in-memory delivery.Repository.
type DeliveryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   []*delivery.Record
}

func NewDeliveryRepository() *DeliveryRepository {
	return &DeliveryRepository{rows: make([]*delivery.Record, 0)}
}

func (r *DeliveryRepository) Create(_ context.Context, rec *delivery.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec.ID = r.nextID
	clone := *rec
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *DeliveryRepository) ListByNovedad(_ context.Context, novedadID int64) ([]*delivery.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*delivery.Record, 0)
	for _, row := range r.rows {
		if row.NovedadID == novedadID {
			clone := *row
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SentAt.Equal(matched[j].SentAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].SentAt.Before(matched[j].SentAt)
	})
	return matched, nil
}
