package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormdesk/internal/domain/paymentplan"
	"dormdesk/internal/domain/registration"
	"dormdesk/internal/infrastructure/backend"
	"dormdesk/internal/infrastructure/draftstore"
	"dormdesk/internal/infrastructure/http/v1/handlers"
	"dormdesk/internal/infrastructure/http/v1/middleware"
	"dormdesk/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend answers the handful of backend routes the BFF calls.
type fakeBackend struct {
	mu       sync.Mutex
	payments []map[string]any
	calls    []string
	created  map[string]any
}

func (f *fakeBackend) record(r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ok(nil))
	})
	mux.HandleFunc("GET /api/v1/rooms", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ok([]map[string]any{
			{"id": 11, "apart_id": 1, "room_number": "101", "capacity": 2, "status": "active"},
		}))
	})
	mux.HandleFunc("GET /api/v1/beds", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ok([]map[string]any{
			{"id": 21, "room_id": 11, "bed_number": "A", "status": "available"},
		}))
	})
	mux.HandleFunc("GET /api/v1/beds/21", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ok(map[string]any{"id": 21, "room_id": 11, "bed_number": "A", "status": "available"}))
	})
	mux.HandleFunc("GET /api/v1/prices", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ok([]map[string]any{
			{"id": 31, "apart_id": 1, "season_code": r.URL.Query().Get("season_code"), "product_id": 5, "price": "1000.00",
				"product": map[string]any{"id": 5, "name": "Bed rent", "is_active": true}},
		}))
	})
	mux.HandleFunc("GET /api/v1/payment-types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 1, "name": "Cash", "is_active": true},
				{"id": 2, "name": "Cheque", "is_active": false},
			},
			"meta": map[string]any{"current_page": 1, "last_page": 1, "per_page": 15, "total": 2},
		})
	})
	mux.HandleFunc("GET /api/v1/firms", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ok([]map[string]any{{"id": 3, "name": "North Campus", "is_active": true}}))
	})
	mux.HandleFunc("POST /api/v1/inventory/{id}/assign-to-room/{room}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, ok(map[string]any{
			"id": 5, "tracking_number": "INV-5", "item_type": "chair", "status": "in_use",
			"assignable_type": `App\Modules\Room\Models\Room`, "assignable_id": 11,
		}))
	})
	mux.HandleFunc("POST /api/v1/features", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["id"] = 4
		f.mu.Lock()
		f.created = body
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, ok(body))
	})
	mux.HandleFunc("GET /api/v1/features/4", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ok(map[string]any{"id": 4, "name": "Sea view", "slug": "sea-view", "is_active": true}))
	})
	mux.HandleFunc("DELETE /api/v1/features/4", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/v1/inventory/6", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ok(map[string]any{"id": 6, "tracking_number": "INV-6", "item_type": "lamp", "status": "available"}))
	})
	mux.HandleFunc("DELETE /api/v1/inventory/6", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, ok(nil))
	})
	mux.HandleFunc("GET /api/v1/seasons/8", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Season not found"})
	})
	mux.HandleFunc("GET /api/v1/payment-plans/9", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ok(map[string]any{
			"id": 9, "planned_amount": "100.00", "planned_date": "2025-10-01", "planned_payment_type_id": 1, "status": "planned",
		}))
	})
	mux.HandleFunc("GET /api/v1/payments", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, ok(f.payments))
	})
	mux.HandleFunc("POST /api/v1/payments", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		body["id"] = 100 + len(f.payments)
		f.payments = append(f.payments, body)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, ok(body))
	})
	mux.HandleFunc("POST /api/v1/season-registrations", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "database is down"})
	})
	return mux
}

type testEnv struct {
	router  *gin.Engine
	backend *fakeBackend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fb := &fakeBackend{}
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	api := backend.NewAPI(backend.NewClient(backend.Config{BaseURL: srv.URL, Timeout: 2 * time.Second}))
	codec, err := draftstore.NewCodec(0)
	require.NoError(t, err)
	drafts := draftstore.NewMemory(codec, time.Hour)

	router := NewRouter(RouterConfig{
		Logger: logger.NewNop(),
		API:    api,
		Registrations: registration.NewService(registration.ServiceConfig{
			Drafts:  drafts,
			Rooms:   api,
			Prices:  api,
			Gateway: api,
		}),
		Reconciler:          paymentplan.NewReconciler(api),
		TokenParser:         middleware.NewClaimsParser(),
		ReadinessChecks:     map[string]handlers.Pinger{"backend": api.Client},
		DefaultInstallments: 10,
	})
	return &testEnv{router: router, backend: fb}
}

func token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func operator(t *testing.T) string {
	return token(t, jwt.MapClaims{"user_id": 7, "firm_id": "3", "email": "ops@example.com"})
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))

	rec, body = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"backend": "healthy"}, body["checks"])
}

func TestAuth_RequiresBearerToken(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/v1/drafts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	rec, _ = env.do(t, http.MethodPost, "/api/v1/drafts", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/v1/drafts", token(t, jwt.MapClaims{"firm_id": "3"}), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "a token without a user id is rejected")
}

func TestDraftWizard(t *testing.T) {
	env := newTestEnv(t)
	tok := operator(t)

	rec, draft := env.do(t, http.MethodPost, "/api/v1/drafts", tok, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := draft["id"].(string)
	require.NotEmpty(t, id)
	base := "/api/v1/drafts/" + id

	rec, draft = env.do(t, http.MethodPut, base+"/apart", tok, map[string]any{"apart_id": 1})
	require.Equal(t, http.StatusOK, rec.Code, draft)
	assert.Len(t, draft["rooms"], 1)

	rec, draft = env.do(t, http.MethodPut, base+"/season", tok, map[string]any{"season_code": "S25"})
	require.Equal(t, http.StatusOK, rec.Code, draft)
	require.Len(t, draft["products"], 1, "a single price is selected automatically")

	rec, _ = env.do(t, http.MethodPost, base+"/products", tok, map[string]any{"product_id": 5})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = env.do(t, http.MethodPut, base+"/room", tok, map[string]any{"room_id": 11})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, draft = env.do(t, http.MethodPut, base+"/bed", tok, map[string]any{"bed_id": 21})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, draft["bed"])

	rec, _ = env.do(t, http.MethodPut, base+"/deposit", tok, map[string]any{"deposit_amount": "200"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, draft = env.do(t, http.MethodPost, base+"/plan/generate", tok, map[string]any{
		"installments": 3, "start_date": "2025-10-01", "payment_type_id": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code, draft)
	assert.Len(t, draft["payment_plans"], 4, "deposit line plus three installments")

	rec, summary := env.do(t, http.MethodGet, base+"/summary", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", summary["warning"])
	assert.Equal(t, "1200", summary["total_amount"])

	rec, body := env.do(t, http.MethodDelete, base+"/plan/lines/0", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "DEPOSIT_LINE_PROTECTED", body["code"])

	rec, body = env.do(t, http.MethodPost, base+"/submit", tok, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "FIELD_VALIDATION", body["code"])
	fields := body["details"].(map[string]any)["fields"].(map[string]any)
	assert.Contains(t, fields, "check_in")
	assert.Contains(t, fields, "guest_id")
}

func TestDraftSubmit_PartialFailureIsReported(t *testing.T) {
	env := newTestEnv(t)
	tok := operator(t)

	_, draft := env.do(t, http.MethodPost, "/api/v1/drafts", tok, nil)
	base := "/api/v1/drafts/" + draft["id"].(string)
	env.do(t, http.MethodPut, base+"/apart", tok, map[string]any{"apart_id": 1})
	env.do(t, http.MethodPut, base+"/season", tok, map[string]any{"season_code": "S25"})
	env.do(t, http.MethodPut, base+"/room", tok, map[string]any{"room_id": 11})
	env.do(t, http.MethodPut, base+"/bed", tok, map[string]any{"bed_id": 21})
	rec, _ := env.do(t, http.MethodPut, base+"/details", tok, map[string]any{
		"check_in": "2025-10-01", "check_out": "2026-06-30", "guest_id": 44,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := env.do(t, http.MethodPost, base+"/submit", tok, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "PARTIAL_FAILURE", body["code"])
	report := body["details"].(map[string]any)["report"].(map[string]any)
	assert.NotEmpty(t, report["steps"])

	_, draft = env.do(t, http.MethodGet, base, tok, nil)
	assert.Equal(t, "failed", draft["state"])
	assert.Contains(t, env.backend.calls, "POST /api/v1/season-registrations")
}

func TestDraft_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)

	_, draft := env.do(t, http.MethodPost, "/api/v1/drafts", operator(t), nil)
	other := token(t, jwt.MapClaims{"user_id": "8", "firm_id": "3"})

	rec, body := env.do(t, http.MethodGet, "/api/v1/drafts/"+draft["id"].(string), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestPaymentTypes_ActiveOnly(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, http.MethodGet, "/api/v1/payment-types", operator(t), nil)
	assert.Len(t, body["items"], 2)

	_, body = env.do(t, http.MethodGet, "/api/v1/payment-types?active=1", operator(t), nil)
	assert.Len(t, body["items"], 1)
	assert.EqualValues(t, 2, body["meta"].(map[string]any)["total"])
}

func TestFirms_RequireSuperAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/firms", operator(t), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", body["code"])

	admin := token(t, jwt.MapClaims{"sub": "1", "roles": []string{RoleSuperAdmin}})
	rec, body = env.do(t, http.MethodGet, "/api/v1/firms", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["items"], 1)
}

func TestInventory_AssignUsesVerb(t *testing.T) {
	env := newTestEnv(t)

	rec, item := env.do(t, http.MethodPost, "/api/v1/inventory/5/assign", operator(t), map[string]any{"type": "room", "id": 11})
	require.Equal(t, http.StatusOK, rec.Code, item)
	assert.EqualValues(t, 11, item["assignable_id"])
	assert.Contains(t, env.backend.calls, "POST /api/v1/inventory/5/assign-to-room/11")

	rec, body := env.do(t, http.MethodPost, "/api/v1/inventory/5/assign", operator(t), map[string]any{"type": "desk", "id": 11})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "FIELD_VALIDATION", body["code"])

	rec, _ = env.do(t, http.MethodGet, "/api/v1/inventory?assignable_type=room", operator(t), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayments_OnePaymentPerLine(t *testing.T) {
	env := newTestEnv(t)
	tok := operator(t)

	rec, view := env.do(t, http.MethodGet, "/api/v1/payment-plans/9/payments", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code, view)
	assert.Equal(t, true, view["can_add_payment"])

	payment := map[string]any{"amount": "100.00", "payment_date": "2025-10-02", "payment_type_id": 1}
	rec, _ = env.do(t, http.MethodPost, "/api/v1/payment-plans/9/payments", tok, payment)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := env.do(t, http.MethodPost, "/api/v1/payment-plans/9/payments", tok, payment)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "PAYMENT_ALREADY_RECORDED", body["code"])

	_, view = env.do(t, http.MethodGet, "/api/v1/payment-plans/9/payments", tok, nil)
	assert.Equal(t, false, view["can_add_payment"])
	assert.Len(t, view["payments"], 1)
}

func TestFeatures_CreateFillsSlugAndDeleteRemoves(t *testing.T) {
	env := newTestEnv(t)
	tok := operator(t)

	rec, created := env.do(t, http.MethodPost, "/api/v1/features", tok, map[string]any{"name": "Sea View", "is_active": true})
	require.Equal(t, http.StatusCreated, rec.Code, created)
	assert.EqualValues(t, 4, created["id"])
	assert.Equal(t, "sea-view", created["slug"])
	assert.Equal(t, "sea-view", env.backend.created["slug"])

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/features/4", tok, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, env.backend.calls, "DELETE /api/v1/features/4")
}

func TestFeatures_CreateValidatesBeforeBackend(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/v1/features", operator(t), map[string]any{"name": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "FIELD_VALIDATION", body["code"])
	assert.NotContains(t, env.backend.calls, "POST /api/v1/features")
}

func TestInventoryAndSeasons_Delete(t *testing.T) {
	env := newTestEnv(t)
	tok := operator(t)

	rec, _ := env.do(t, http.MethodDelete, "/api/v1/inventory/6", tok, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, env.backend.calls, "DELETE /api/v1/inventory/6")

	rec, body := env.do(t, http.MethodDelete, "/api/v1/seasons/8", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])
}
