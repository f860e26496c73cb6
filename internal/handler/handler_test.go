package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/health-index-server/internal/auth"
	"github.com/parisxmas/health-index-server/internal/handler"
	"github.com/parisxmas/health-index-server/internal/models"
	"github.com/parisxmas/health-index-server/internal/router"
	"github.com/parisxmas/health-index-server/internal/service"
)

const (
	testSecret = "test-secret"
	testUser   = "admin"
	testPass   = "securepassword123"
)

// memStore is an in-memory SubmissionStore that counts mutations so tests
// can assert that rejected requests write nothing.
type memStore struct {
	mu        sync.Mutex
	seq       int
	docs      map[string]models.Submission
	mutations int
}

func (m *memStore) Insert(sub *models.Submission) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.mutations++
	id := strconv.Itoa(m.seq)
	stored := *sub
	stored.ID = id
	m.docs[id] = stored
	return id, nil
}

func (m *memStore) FindAll() ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Submission, 0, len(m.docs))
	for _, s := range m.docs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt > out[j].SubmittedAt })
	return out, nil
}

func (m *memStore) FindByID(id string) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

func (m *memStore) Replace(id string, sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	stored := *sub
	stored.ID = id
	m.docs[id] = stored
	return nil
}

func (m *memStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	delete(m.docs, id)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	store := &memStore{docs: make(map[string]models.Submission)}

	hash, err := auth.HashPassword(testPass)
	require.NoError(t, err)
	authSvc := service.NewAuthService(service.Credentials{Username: testUser, PasswordHash: hash}, testSecret)
	subSvc := service.NewSubmissionService(store)

	r := router.New(testSecret, handler.NewAuthHandler(authSvc), handler.NewSubmissionHandler(subSvc))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{
		"username": testUser, "password": testPass,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func samplePayload() map[string]any {
	return map[string]any{
		"name":                 "A",
		"companyName":          "B",
		"email":                "a@b.com",
		"businessType":         "Service Company",
		"qualityIndex":         5,
		"costEfficiency":       5,
		"deliveryTimeliness":   5,
		"customerSatisfaction": 5,
		"processStability":     5,
		"employeeHealth":       5,
	}
}

func listSubmissions(t *testing.T, srv *httptest.Server, token string) []models.Submission {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/submissions", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var subs []models.Submission
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&subs))
	return subs
}

func TestSubmitListDeleteScenario(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/submit", "", samplePayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Submission successful", body["message"])

	token := login(t, srv)

	subs := listSubmissions(t, srv, token)
	require.Len(t, subs, 1)
	got := subs[0]
	assert.NotEmpty(t, got.ID)
	assert.NotEmpty(t, got.SubmittedAt)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, "B", got.CompanyName)
	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, "Service Company", got.BusinessType)
	assert.Equal(t, 5, got.QualityIndex)
	assert.Equal(t, 5, got.EmployeeHealth)

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/api/submissions/"+got.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Submission deleted successfully", body["msg"])

	assert.Empty(t, listSubmissions(t, srv, token))
}

func TestSubmitValidationFailure(t *testing.T) {
	srv, store := newTestServer(t)

	p := samplePayload()
	p["qualityIndex"] = 11
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/submit", "", p)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errMsg, _ := body["error"].(string)
	assert.Contains(t, errMsg, "qualityIndex")
	assert.Equal(t, 0, store.mutations)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{
		"username": testUser, "password": "nope",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid Credentials", body["msg"])
	assert.Nil(t, body["token"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, store := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/submit", "", samplePayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	before := store.mutations

	// Forged token signed with the wrong secret.
	forged, err := auth.GenerateToken("wrong-secret", "admin_id", testUser)
	require.NoError(t, err)

	cases := []struct {
		method, path, token string
		body                any
	}{
		{http.MethodGet, "/api/submissions", "", nil},
		{http.MethodGet, "/api/me", "", nil},
		{http.MethodPut, "/api/submissions/1", "", map[string]any{"companyName": "X"}},
		{http.MethodDelete, "/api/submissions/1", "", nil},
		{http.MethodGet, "/api/submissions", forged, nil},
		{http.MethodPut, "/api/submissions/1", forged, map[string]any{"companyName": "X"}},
		{http.MethodDelete, "/api/submissions/1", forged, nil},
	}
	for _, c := range cases {
		resp, _ := doJSON(t, c.method, srv.URL+c.path, c.token, c.body)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", c.method, c.path)
	}
	assert.Equal(t, before, store.mutations, "unauthorized requests must not mutate the store")
}

func TestUpdateMergeOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/submit", "", samplePayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	token := login(t, srv)
	subs := listSubmissions(t, srv, token)
	require.Len(t, subs, 1)
	orig := subs[0]

	// Out-of-range metric after merge: rejected in full, record unchanged.
	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/submissions/"+orig.ID, token, map[string]any{"qualityIndex": 15})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errMsg, _ := body["error"].(string)
	assert.Contains(t, errMsg, "qualityIndex")

	subs = listSubmissions(t, srv, token)
	require.Len(t, subs, 1)
	assert.Equal(t, orig, subs[0])

	// Partial update touches only companyName.
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/submissions/"+orig.ID, token, map[string]any{"companyName": "X"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	subs = listSubmissions(t, srv, token)
	require.Len(t, subs, 1)
	expected := orig
	expected.CompanyName = "X"
	assert.Equal(t, expected, subs[0])
}

func TestUpdateUnknownKeyRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/submit", "", samplePayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	token := login(t, srv)
	subs := listSubmissions(t, srv, token)
	require.Len(t, subs, 1)

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/submissions/"+subs[0].ID, token, map[string]any{"submittedAt": "2001-01-01T00:00:00Z"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errMsg, _ := body["error"].(string)
	assert.Contains(t, errMsg, "submittedAt")
}

func TestNotFoundResponses(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv)

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/submissions/999", token, map[string]any{"companyName": "X"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Submission not found", body["msg"])

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/api/submissions/999", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Submission not found", body["msg"])
}

func TestMe(t *testing.T) {
	srv, _ := newTestServer(t)
	token := login(t, srv)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin_id", body["id"])
	assert.Equal(t, testUser, body["username"])
}
