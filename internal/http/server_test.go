package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigbook/internal/cache"
	"gigbook/internal/middleware/auth"
	"gigbook/internal/services"
	"gigbook/internal/storage"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	stats := services.NewStatsService(repo, cache.NewLRUCache[any](64, time.Minute), 7*24*time.Hour)
	svc := Services{
		Users:    services.NewUserService(repo),
		Projects: services.NewProjectService(repo, stats),
		Entries:  services.NewEntryService(repo, nil, stats),
		Savings:  services.NewSavingsService(repo, nil, stats),
		Stats:    stats,
	}
	s := NewServer(":0", testSecret, svc, 7*24*time.Hour)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Data
}

// registerUser creates a user and returns its id and a valid bearer token.
func registerUser(t *testing.T, s *Server, email string) (string, string) {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/v1/users", "", map[string]string{
		"email": email,
		"name":  "Tester",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeData(t, rec)["id"].(string)
	token, err := auth.IssueToken(testSecret, id, time.Hour)
	require.NoError(t, err)
	return id, token
}

func createProject(t *testing.T, s *Server, token string) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/v1/projects", token, map[string]any{
		"name":            "Site redesign",
		"clientName":      "Acme",
		"expectedPayment": "5000.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData(t, rec)["id"].(string)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/readyz", "", nil).Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/projects", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "dup@example.com")

	rec := do(t, s, http.MethodPost, "/api/v1/users", "", map[string]string{
		"email": "dup@example.com",
		"name":  "Other",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUnknownBodyFieldRejected(t *testing.T) {
	s := newTestServer(t)
	_, token := registerUser(t, s, "strict@example.com")

	rec := do(t, s, http.MethodPost, "/api/v1/projects", token, map[string]any{
		"name":       "P",
		"clientName": "C",
		"surprise":   true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIncomeLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, token := registerUser(t, s, "income@example.com")
	projectID := createProject(t, s, token)

	rec := do(t, s, http.MethodPost, "/api/v1/income", token, map[string]any{
		"projectId":   projectID,
		"amount":      "150.50",
		"description": "milestone 1",
		"date":        "2024-03-10",
		"category":    "project-payment",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData(t, rec)
	assert.Equal(t, "150.50", created["amount"])
	entryID := created["id"].(string)

	// Detail view joins the project names.
	rec = do(t, s, http.MethodGet, "/api/v1/income/"+entryID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData(t, rec)
	assert.Equal(t, "Site redesign", got["projectName"])
	assert.Equal(t, "Acme", got["clientName"])

	// List envelope carries pagination.
	rec = do(t, s, http.MethodGet, "/api/v1/income?page=1&limit=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Total   int  `json:"total"`
			Pages   int  `json:"pages"`
			HasNext bool `json:"hasNext"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 1)
	assert.Equal(t, 1, list.Pagination.Total)
	assert.False(t, list.Pagination.HasNext)

	rec = do(t, s, http.MethodDelete, "/api/v1/income/"+entryID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/income/"+entryID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCrossUserProjectHiddenAsNotFound(t *testing.T) {
	s := newTestServer(t)
	_, ownerToken := registerUser(t, s, "owner@example.com")
	_, intruderToken := registerUser(t, s, "intruder@example.com")
	projectID := createProject(t, s, ownerToken)

	rec := do(t, s, http.MethodGet, "/api/v1/projects/"+projectID, intruderToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/income", intruderToken, map[string]any{
		"projectId":   projectID,
		"amount":      "10.00",
		"description": "sneaky",
		"date":        "2024-03-10",
		"category":    "project-payment",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidAmountRejected(t *testing.T) {
	s := newTestServer(t)
	_, token := registerUser(t, s, "amounts@example.com")
	projectID := createProject(t, s, token)

	for _, amount := range []string{"", "abc", "-5", "1.2.3"} {
		rec := do(t, s, http.MethodPost, "/api/v1/income", token, map[string]any{
			"projectId":   projectID,
			"amount":      amount,
			"description": "x",
			"date":        "2024-03-10",
			"category":    "project-payment",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "amount %q", amount)
	}
}

func TestSavingsGoalProgressEndpoints(t *testing.T) {
	s := newTestServer(t)
	_, token := registerUser(t, s, "saver@example.com")

	deadline := time.Now().AddDate(0, 6, 0).Format("2006-01-02")
	rec := do(t, s, http.MethodPost, "/api/v1/savings-goals", token, map[string]any{
		"title":        "New laptop",
		"targetAmount": "100.00",
		"deadline":     deadline,
		"category":     "equipment",
		"priority":     "high",
		"cadence":      "monthly",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	goalID := decodeData(t, rec)["id"].(string)

	rec = do(t, s, http.MethodPost, "/api/v1/savings-goals/"+goalID+"/progress/add", token,
		map[string]string{"amount": "105.00"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData(t, rec)
	assert.Equal(t, true, got["isCompleted"])
	assert.Equal(t, float64(105), got["progress"])

	rec = do(t, s, http.MethodPost, "/api/v1/savings-goals/"+goalID+"/progress/subtract", token,
		map[string]string{"amount": "999.00"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/savings-goals/"+goalID+"/reactivate", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeData(t, rec)["isCompleted"])

	rec = do(t, s, http.MethodGet, "/api/v1/savings-goals/expiring-soon?days=400", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGoalAcceptsZeroStartingProgress(t *testing.T) {
	s := newTestServer(t)
	_, token := registerUser(t, s, "zero@example.com")

	deadline := time.Now().AddDate(0, 6, 0).Format("2006-01-02")
	for _, zero := range []string{"0", "0.00", "0,00"} {
		rec := do(t, s, http.MethodPost, "/api/v1/savings-goals", token, map[string]any{
			"title":         "Emergency fund",
			"targetAmount":  "500.00",
			"currentAmount": zero,
			"deadline":      deadline,
			"category":      "emergency",
			"priority":      "medium",
			"cadence":       "monthly",
		})
		require.Equal(t, http.StatusCreated, rec.Code, "currentAmount=%q: %s", zero, rec.Body.String())
		got := decodeData(t, rec)
		assert.Equal(t, "0.00", got["currentAmount"], "currentAmount=%q", zero)
		assert.Equal(t, float64(0), got["progress"])
	}

	// Negative starting progress is still rejected.
	rec := do(t, s, http.MethodPost, "/api/v1/savings-goals", token, map[string]any{
		"title":         "Emergency fund",
		"targetAmount":  "500.00",
		"currentAmount": "-1.00",
		"deadline":      deadline,
		"category":      "emergency",
		"priority":      "medium",
		"cadence":       "monthly",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsEndpoints(t *testing.T) {
	s := newTestServer(t)
	_, token := registerUser(t, s, "stats@example.com")
	projectID := createProject(t, s, token)

	for _, amount := range []string{"100.00", "50.00"} {
		rec := do(t, s, http.MethodPost, "/api/v1/income", token, map[string]any{
			"projectId":   projectID,
			"amount":      amount,
			"description": "payment",
			"date":        "2024-01-15",
			"category":    "project-payment",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/api/v1/stats/income", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeData(t, rec)
	assert.Equal(t, "150.00", stats["total"])
	assert.Equal(t, float64(2), stats["count"])
	assert.Equal(t, "75.00", stats["average"])

	rec = do(t, s, http.MethodGet, "/api/v1/stats/income/by-project", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var byProject struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byProject))
	require.Len(t, byProject.Data, 1)
	assert.Equal(t, "Site redesign", byProject.Data[0]["projectName"])
	assert.Equal(t, "150.00", byProject.Data[0]["totalAmount"])

	rec = do(t, s, http.MethodGet, "/api/v1/stats/savings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeData(t, rec)["totalGoals"])
}
