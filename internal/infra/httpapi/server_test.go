package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"novedad_notification_service/internal/app"
	"novedad_notification_service/internal/domain/assignment"
	"novedad_notification_service/internal/domain/novedad"
	"novedad_notification_service/internal/domain/recipient"
	"novedad_notification_service/internal/infra/database/memorydb"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv bundles the server with its in-memory repositories so tests can
// seed state directly.
type testEnv struct {
	server         *Server
	recipientRepo  *memorydb.RecipientRepository
	novedadRepo    *memorydb.NovedadRepository
	assignmentRepo *memorydb.AssignmentRepository
	deliveryRepo   *memorydb.DeliveryRepository
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	rr := memorydb.NewRecipientRepository()
	nr := memorydb.NewNovedadRepository()
	ar := memorydb.NewAssignmentRepository()
	dr := memorydb.NewDeliveryRepository()

	l := logrus.New()
	l.SetOutput(io.Discard)
	entry := logrus.NewEntry(l)

	server := NewServer(
		"0",
		testSecret,
		app.NewRecipientService(rr),
		app.NewAssignmentService(ar, rr),
		app.NewNovedadService(nr, entry),
		app.NewResolverService(nr, ar, rr, entry),
		app.NewDeliveryService(dr, nr),
	)

	return &testEnv{
		server:         server,
		recipientRepo:  rr,
		novedadRepo:    nr,
		assignmentRepo: ar,
		deliveryRepo:   dr,
	}
}

// makeToken signs a session token the way the external session collaborator
// would.
func makeToken(t *testing.T) string {
	t.Helper()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: "user-1",
		Email:  "ops@example.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+makeToken(t))

	w := httptest.NewRecorder()
	e.server.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestAuthBoundary(t *testing.T) {
	e := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipients", nil)
	w := httptest.NewRecorder()
	e.server.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/recipients", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	e.server.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthIsOpen(t *testing.T) {
	e := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	e.server.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateConsecutives(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()

	require.NoError(t, e.novedadRepo.Create(ctx, &novedad.Novedad{Consecutive: "1001", PuestoID: 7, EventTypeID: 3}))

	w := e.do(t, http.MethodPost, "/api/v1/events/validate-consecutives",
		gin.H{"consecutives": []string{"1001", "1002"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Missing []string `json:"missing"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, []string{"1002"}, resp.Missing)

	// Empty input is still a 200 with an empty result.
	w = e.do(t, http.MethodPost, "/api/v1/events/validate-consecutives",
		gin.H{"consecutives": []string{}})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Empty(t, resp.Missing)
}

func TestIngestEvents(t *testing.T) {
	e := setupTestServer(t)

	batch := []gin.H{
		{"consecutivo": "1001", "puesto_id": 7, "tipo_novedad_id": 3},
		{"consecutivo": "1002", "puesto_id": 7, "tipo_novedad_id": 3},
	}
	w := e.do(t, http.MethodPost, "/api/v1/events", batch)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Ingested   int `json:"ingested"`
		Duplicates int `json:"duplicates"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 2, resp.Ingested)
	assert.Equal(t, 0, resp.Duplicates)

	// Replaying the batch is benign.
	w = e.do(t, http.MethodPost, "/api/v1/events", batch)
	require.Equal(t, http.StatusCreated, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 0, resp.Ingested)
	assert.Equal(t, 2, resp.Duplicates)

	w = e.do(t, http.MethodPost, "/api/v1/events", []gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipientEndpoints(t *testing.T) {
	e := setupTestServer(t)

	w := e.do(t, http.MethodPost, "/api/v1/recipients", gin.H{"name": "Ana", "email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, w, &created)
	require.NotZero(t, created.ID)

	// Duplicate active email is a validation error.
	w = e.do(t, http.MethodPost, "/api/v1/recipients", gin.H{"name": "Ana", "email": "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/v1/recipients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []recipientResponse
	decodeBody(t, w, &listed)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Active)

	// Search and verify require the email parameter.
	w = e.do(t, http.MethodGet, "/api/v1/recipients/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = e.do(t, http.MethodGet, "/api/v1/recipients/verify", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/v1/recipients/search?email=ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []searchResultResponse
	decodeBody(t, w, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "ana@example.com", found[0].Email)

	w = e.do(t, http.MethodGet, "/api/v1/recipients/verify?email=ana@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var verify struct {
		Existe bool `json:"existe"`
	}
	decodeBody(t, w, &verify)
	assert.True(t, verify.Existe)

	w = e.do(t, http.MethodPut, "/api/v1/recipients/1/deactivate", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/v1/recipients/verify?email=ana@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &verify)
	assert.False(t, verify.Existe)

	w = e.do(t, http.MethodPut, "/api/v1/recipients/99/deactivate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignmentEndpoints(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()

	rec := &recipient.Recipient{Name: "Ana", Email: "ana@example.com", IsActive: true}
	require.NoError(t, e.recipientRepo.Create(ctx, rec))

	w := e.do(t, http.MethodPost, "/api/v1/assignments",
		gin.H{"puesto_id": 7, "tipo_novedad_id": 3, "recipient_id": rec.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	// Same active triple twice is rejected.
	w = e.do(t, http.MethodPost, "/api/v1/assignments",
		gin.H{"puesto_id": 7, "tipo_novedad_id": 3, "recipient_id": rec.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/v1/assignments?puesto_id=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []assignmentResponse
	decodeBody(t, w, &listed)
	require.Len(t, listed, 1)

	w = e.do(t, http.MethodDelete, "/api/v1/assignments/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Deleting again distinguishes "already gone".
	w = e.do(t, http.MethodDelete, "/api/v1/assignments/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveRecipientsEndpoint(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()

	recA := &recipient.Recipient{Name: "Ana", Email: "ana@example.com", IsActive: true}
	require.NoError(t, e.recipientRepo.Create(ctx, recA))
	recB := &recipient.Recipient{Name: "Bruno", Email: "bruno@example.com", IsActive: false}
	require.NoError(t, e.recipientRepo.Create(ctx, recB))

	n := &novedad.Novedad{Consecutive: "1001", PuestoID: 7, EventTypeID: 3}
	require.NoError(t, e.novedadRepo.Create(ctx, n))

	for _, id := range []int64{recA.ID, recB.ID} {
		require.NoError(t, e.assignmentRepo.Create(ctx, &assignment.Assignment{
			PuestoID: 7, EventTypeID: 3, RecipientID: id, IsActive: true,
		}))
	}

	w := e.do(t, http.MethodGet, "/api/v1/events/1/recipients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var audience []resolvedRecipientResponse
	decodeBody(t, w, &audience)
	require.Len(t, audience, 1)
	assert.Equal(t, "ana@example.com", audience[0].Email)

	w = e.do(t, http.MethodGet, "/api/v1/events/999/recipients", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeliveryEndpoints(t *testing.T) {
	e := setupTestServer(t)
	ctx := context.Background()

	n := &novedad.Novedad{Consecutive: "1001", PuestoID: 7, EventTypeID: 3}
	require.NoError(t, e.novedadRepo.Create(ctx, n))

	w := e.do(t, http.MethodPost, "/api/v1/events/1/deliveries",
		gin.H{"recipient_id": 1, "outcome": "SENT"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.do(t, http.MethodPost, "/api/v1/events/1/deliveries",
		gin.H{"recipient_id": 2, "outcome": "SENT"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPost, "/api/v1/events/1/deliveries",
		gin.H{"recipient_id": 1, "outcome": "LOST"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/v1/events/999/deliveries",
		gin.H{"recipient_id": 1, "outcome": "SENT"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/api/v1/events/1/deliveries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []deliveryRecordResponse
	decodeBody(t, w, &records)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].RecipientID)
	assert.Equal(t, int64(2), records[1].RecipientID)
}
