package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jisetihq/jiseti/config"
	apiError "github.com/jisetihq/jiseti/errors"
	"github.com/jisetihq/jiseti/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecordService records the arguments the transport layer hands it.
type fakeRecordService struct {
	lastPagination models.Pagination
	lastFilters    models.RecordFilters
	publicRecords  []models.PublicRecordResponse
	anonRecord     *models.Record
	anonToken      string
	anonErr        *apiError.Error
}

func (f *fakeRecordService) CreateRecord(actor models.Actor, req *models.CreateRecordRequest) (*models.Record, *apiError.Error) {
	return nil, apiError.ErrInternalServerError
}

func (f *fakeRecordService) CreateAnonymousRecord(req *models.CreateRecordRequest) (*models.Record, string, *apiError.Error) {
	if f.anonErr != nil {
		return nil, "", f.anonErr
	}
	return f.anonRecord, f.anonToken, nil
}

func (f *fakeRecordService) GetRecord(actor models.Actor, recordID uuid.UUID) (*models.Record, *apiError.Error) {
	return nil, apiError.ErrNotFound
}

func (f *fakeRecordService) UpdateRecord(actor models.Actor, recordID uuid.UUID, patch *models.UpdateRecordRequest) (*models.Record, *apiError.Error) {
	return nil, apiError.ErrNotFound
}

func (f *fakeRecordService) DeleteRecord(actor models.Actor, recordID uuid.UUID) *apiError.Error {
	return apiError.ErrNotFound
}

func (f *fakeRecordService) TransitionStatus(actor models.Actor, recordID uuid.UUID, req *models.TransitionStatusRequest) (*models.Record, *apiError.Error) {
	return nil, apiError.ErrNotFound
}

func (f *fakeRecordService) GetRecordHistory(actor models.Actor, recordID uuid.UUID) ([]models.StatusHistoryResponse, *apiError.Error) {
	return nil, nil
}

func (f *fakeRecordService) GetPublicRecords(filters models.RecordFilters, p models.Pagination) ([]models.PublicRecordResponse, models.PageInfo, *apiError.Error) {
	f.lastFilters = filters
	f.lastPagination = p
	return f.publicRecords, models.NewPageInfo(p, int64(len(f.publicRecords))), nil
}

func (f *fakeRecordService) GetPublicRecordDetails(recordID uuid.UUID) (*models.PublicRecordResponse, []models.StatusHistoryResponse, *apiError.Error) {
	return nil, nil, apiError.ErrNotFound
}

func (f *fakeRecordService) GetMyRecords(actor models.Actor, filters models.RecordFilters, p models.Pagination) ([]models.RecordResponse, models.PageInfo, *apiError.Error) {
	return nil, models.PageInfo{}, nil
}

func (f *fakeRecordService) GetAllRecords(actor models.Actor, filters models.RecordFilters, p models.Pagination) ([]models.RecordResponse, models.PageInfo, *apiError.Error) {
	return nil, models.PageInfo{}, nil
}

func (f *fakeRecordService) GetRecordStats(actor models.Actor) (*models.RecordStats, *apiError.Error) {
	return nil, apiError.ErrForbidden
}

func newTestServer(t *testing.T, recordService *fakeRecordService) *gin.Engine {
	t.Helper()
	t.Setenv("GIN_MODE", "test")
	gin.SetMode(gin.TestMode)

	s := &Server{
		Config:        &config.Config{JWTSecret: "test-secret"},
		RecordService: recordService,
	}
	return s.setupRouter()
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestServer(t, &fakeRecordService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicRecordsPaginationClamping(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "", 1, 10},
		{"page zero falls back", "?page=0", 1, 10},
		{"negative page falls back", "?page=-3", 1, 10},
		{"junk input falls back", "?page=abc&per_page=xyz", 1, 10},
		{"per_page above cap clamps", "?per_page=500", 1, 100},
		{"valid values pass through", "?page=3&per_page=25", 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRecordService{}
			router := newTestServer(t, fake)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/public/records"+tt.query, nil)
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantPage, fake.lastPagination.Page)
			assert.Equal(t, tt.wantPerPage, fake.lastPagination.PerPage)
		})
	}
}

func TestPublicRecordsFilterParsing(t *testing.T) {
	fake := &fakeRecordService{}
	router := newTestServer(t, fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/records?status=resolved&type=red-flag&urgency=high&search=bribe", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "resolved", fake.lastFilters.Status)
	assert.Equal(t, "red-flag", fake.lastFilters.Type)
	assert.Equal(t, "high", fake.lastFilters.Urgency)
	assert.Equal(t, "bribe", fake.lastFilters.Search)
}

func TestAnonymousReportEndpoint(t *testing.T) {
	fake := &fakeRecordService{
		anonRecord: &models.Record{
			ID:          uuid.New(),
			Type:        models.RecordTypeRedFlag,
			Title:       "Bribe at checkpoint",
			Status:      models.StatusUnderInvestigation,
			IsAnonymous: true,
		},
		anonToken: "ANON-test-token",
	}
	router := newTestServer(t, fake)

	body := `{"type":"red-flag","title":"Bribe at checkpoint","description":"Officer demanded money"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/report", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "ANON-test-token")
	assert.Contains(t, w.Body.String(), "under-investigation")
	assert.Contains(t, w.Body.String(), `"creator_name":"Anonymous"`)
}

func TestAnonymousReportValidationErrorPassesThrough(t *testing.T) {
	fake := &fakeRecordService{anonErr: apiError.New("title is required", http.StatusBadRequest)}
	router := newTestServer(t, fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/report", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title is required")
}

func TestAuthorizedRoutesRejectMissingToken(t *testing.T) {
	router := newTestServer(t, &fakeRecordService{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/records"},
		{http.MethodPatch, "/api/v1/records/" + uuid.NewString()},
		{http.MethodDelete, "/api/v1/records/" + uuid.NewString()},
		{http.MethodPost, "/api/v1/records/" + uuid.NewString() + "/vote"},
		{http.MethodPatch, "/api/v1/records/" + uuid.NewString() + "/status"},
		{http.MethodGet, "/api/v1/my-records"},
		{http.MethodGet, "/api/v1/admin/records"},
		{http.MethodGet, "/api/v1/admin/stats"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(route.method, route.path, nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestInvalidRecordIDIsRejected(t *testing.T) {
	router := newTestServer(t, &fakeRecordService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/records/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
