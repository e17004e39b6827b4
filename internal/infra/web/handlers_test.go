package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"visa_slot_watcher/internal/app"
	"visa_slot_watcher/internal/domain/schedule"
	"visa_slot_watcher/internal/domain/watchrequest"
	idb "visa_slot_watcher/internal/infra/database"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	mu     sync.Mutex
	nextID int64
	items  []*watchrequest.WatchRequest
}

func (r *memoryRepository) Create(_ context.Context, req *watchrequest.WatchRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.UniqueID == req.UniqueID {
			return idb.ErrDuplicateUniqueID
		}
	}
	r.nextID++
	req.ID = r.nextID
	r.items = append(r.items, req)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*watchrequest.WatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, idb.ErrWatchRequestNotFound
}

func (r *memoryRepository) GetByUniqueID(_ context.Context, uniqueID string) (*watchrequest.WatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.UniqueID == uniqueID {
			return it, nil
		}
	}
	return nil, idb.ErrWatchRequestNotFound
}

func (r *memoryRepository) ListAll(_ context.Context) ([]*watchrequest.WatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*watchrequest.WatchRequest(nil), r.items...), nil
}

func (r *memoryRepository) Delete(ctx context.Context, id int64) error {
	req, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return r.DeleteByUniqueID(ctx, req.UniqueID)
}

func (r *memoryRepository) DeleteByUniqueID(_ context.Context, uniqueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if it.UniqueID == uniqueID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return idb.ErrWatchRequestNotFound
}

func newTestRouter(t *testing.T) (*gin.Engine, *memoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()
	repo := &memoryRepository{}
	rules := schedule.DefaultRules()
	requests := app.NewRequestService(repo, schedule.MonthCursor(rules.Start, rules.End))
	return NewRouter(requests, log.WithField("component", "web")), repo
}

func validForm() url.Values {
	return url.Values{
		"email":             {"ama@example.com"},
		"password":          {"s3cret"},
		"unique_id":         {"GH-7"},
		"first_name":        {"Ama"},
		"last_name":         {"Mensah"},
		"appointment_type":  {"new"},
		"target_month_year": {"2026-07"},
		"target_day_start":  {"15"},
		"target_day_end":    {""},
	}
}

func postForm(router http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestAddSubmit_CreatesAndRedirects(t *testing.T) {
	router, repo := newTestRouter(t)

	w := postForm(router, validForm())

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/dashboard?")
	require.Len(t, repo.items, 1)
	stored := repo.items[0]
	assert.Equal(t, "GH-7", stored.UniqueID)
	assert.False(t, stored.TargetDayEnd.Valid)
	assert.NotEqual(t, "s3cret", stored.SecretHash)

	page := get(router, w.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Account GH-7 added successfully!")
	assert.Contains(t, page.Body.String(), "Ama Mensah")
}

func TestAddSubmit_DuplicateUniqueID(t *testing.T) {
	router, repo := newTestRouter(t)
	require.Equal(t, http.StatusSeeOther, postForm(router, validForm()).Code)

	w := postForm(router, validForm())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "An account with this Unique ID already exists.")
	assert.Len(t, repo.items, 1)
}

func TestAddSubmit_ValidationErrors(t *testing.T) {
	router, repo := newTestRouter(t)
	form := validForm()
	form.Set("email", "nope")
	form.Set("target_month_year", "2030-01")

	w := postForm(router, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be a valid email address")
	assert.Empty(t, repo.items)
}

func TestAddSubmit_UnknownMonth(t *testing.T) {
	router, repo := newTestRouter(t)
	form := validForm()
	form.Set("target_month_year", "2030-01")

	w := postForm(router, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not a selectable month")
	assert.Empty(t, repo.items)
}

func TestAddSubmit_NonNumericDay(t *testing.T) {
	router, repo := newTestRouter(t)
	form := validForm()
	form.Set("target_day_start", "abc")

	w := postForm(router, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.items)
}

func TestAddForm_ListsMonths(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(router, "/add")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<option value="2025-12">December 2025</option>`)
	assert.Contains(t, w.Body.String(), `<option value="2026-12">December 2026</option>`)
}

func TestDelete(t *testing.T) {
	router, repo := newTestRouter(t)
	require.Equal(t, http.StatusSeeOther, postForm(router, validForm()).Code)
	id := repo.items[0].ID

	w := get(router, "/delete/"+strconv.FormatInt(id, 10))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), url.QueryEscape("Account GH-7 deleted."))
	assert.Empty(t, repo.items)

	w = get(router, "/delete/"+strconv.FormatInt(id, 10))
	assert.Contains(t, w.Header().Get("Location"), url.QueryEscape("Account not found."))
}

func TestLoginLogoutRedirect(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/login", "/logout"} {
		w := get(router, path)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	}
}

func TestDashboard_Empty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(router, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No accounts yet.")
}

func TestAPI_CreateListDelete(t *testing.T) {
	router, _ := newTestRouter(t)
	body := `{"email":"kofi@example.com","password":"pw","unique_id":"GH-9","first_name":"Kofi","last_name":"Boateng",
		"appointment_type":"reschedule","target_month_year":"2026-08","target_day_start":3,"target_day_end":7}`

	req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "GH-9", created["unique_id"])
	assert.Equal(t, float64(7), created["target_day_end"])
	assert.NotContains(t, created, "secret_hash")

	w = get(router, "/v1/requests")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, float64(3), listed[0]["target_day_start"])
	assert.Equal(t, float64(7), listed[0]["target_day_end"])

	del := httptest.NewRecorder()
	router.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/v1/requests/1", nil))
	assert.Equal(t, http.StatusNoContent, del.Code)

	del = httptest.NewRecorder()
	router.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/v1/requests/1", nil))
	assert.Equal(t, http.StatusNotFound, del.Code)
}

func TestAPI_CreateInvalid(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(`{"email":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}
